// Command storectl inspects and maintains the message store configured by
// the environment (STORE_DRIVER, MONGODB_URI, DATABASE_URL).
//
//	storectl list
//	storectl history -cid abc123 [-limit 50]
//	storectl delete -cid abc123
//	storectl seed [-cid demo] [-lang bn]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	config "dalal-chat-api/configs"
	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/services"
	"dalal-chat-api/pkg/store"

	"github.com/joho/godotenv"
)

var errUsage = errors.New("usage: storectl <list|history|delete|seed> [flags]")

// seedPrompts is the demo conversation written by "seed".
var seedPrompts = []string{
	"হ্যালো!",
	"একটি মিড-রেঞ্জ ল্যাপটপের best price কত হবে?",
	"ঢাকা মেট্রোতে ডেলিভারি কতদিনে হয়?",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := store.Open(ctx, store.Options{
		Driver:      cfg.StoreDriver,
		MongoURI:    cfg.MongoDBURI,
		MongoDBName: cfg.MongoDBName,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer s.Close(context.Background())

	catalog, err := config.LoadPromptCatalog(cfg.PromptsFile)
	if err != nil {
		log.Fatalf("failed to load prompt catalog: %v", err)
	}

	if err := run(ctx, os.Args[1:], os.Stdout, s, catalog); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer, s store.MessageStore, catalog *config.PromptCatalog) error {
	if len(args) == 0 {
		return errUsage
	}
	conversations := services.NewConversationService(s)

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	cid := fs.String("cid", "", "conversation id")
	limit := fs.Int("limit", services.HistoryLimit, "maximum number of messages")
	lang := fs.String("lang", "bn", "reply language for seeded messages (bn or en)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		rows, err := conversations.ListConversations(ctx)
		if err != nil {
			return err
		}
		for _, r := range rows {
			fmt.Fprintf(out, "%s\t%s\t%s\n", r.ConversationID, r.LastAt.Format(time.RFC3339), r.LastText)
		}
		return nil

	case "history":
		msgs, err := conversations.GetHistory(ctx, *cid, *limit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(msgs)

	case "delete":
		if *cid == "" {
			return errors.New("delete requires -cid")
		}
		if err := conversations.DeleteConversation(ctx, *cid); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", *cid)
		return nil

	case "seed":
		id := *cid
		if id == "" {
			id = "demo"
		}
		chat := services.NewChatService(s, conversations, services.NewFallbackReplyGenerator(catalog), logger.Nop())
		for _, prompt := range seedPrompts {
			if _, err := chat.PostChat(ctx, prompt, id, models.ParseLanguage(*lang)); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "seeded %s with %d messages\n", id, 2*len(seedPrompts))
		return nil

	default:
		return errUsage
	}
}
