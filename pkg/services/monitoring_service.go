package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"dalal-chat-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxRequestLogs = 5000

// RequestLog is one handled request.
type RequestLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	StatusCode int       `json:"statusCode"`
	LatencyMs  int64     `json:"latencyMs"`
}

// MonitoringService logs every request and keeps a bounded in-memory
// history for the dashboard.
type MonitoringService struct {
	mu       sync.RWMutex
	logs     []RequestLog
	log      *logger.Logger
	location *time.Location
	now      func() time.Time
}

func NewMonitoringService(log *logger.Logger) *MonitoringService {
	if log == nil {
		log = logger.Nop()
	}
	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		loc = time.UTC
	}
	return &MonitoringService{
		logs:     make([]RequestLog, 0),
		log:      log,
		location: loc,
		now:      time.Now,
	}
}

// Record stores entry, dropping the oldest one past the cap.
func (s *MonitoringService) Record(entry RequestLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxRequestLogs {
		s.logs = append([]RequestLog(nil), s.logs[len(s.logs)-maxRequestLogs:]...)
	}
}

// LoggingMiddleware writes one structured log line per request and records
// it. Monitoring and static asset requests are logged but not recorded.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()
		c.Next()

		path := c.Request.URL.Path
		entry := RequestLog{
			Timestamp:  start,
			Path:       path,
			Method:     c.Request.Method,
			StatusCode: c.Writer.Status(),
			LatencyMs:  s.now().Sub(start).Milliseconds(),
		}

		kv := []interface{}{
			"method", entry.Method,
			"path", path,
			"status", entry.StatusCode,
			"latencyMs", entry.LatencyMs,
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		if entry.StatusCode >= 500 {
			s.log.Error("request", kv...)
		} else {
			s.log.Info("request", kv...)
		}

		if strings.HasPrefix(path, "/api/monitoring") || !strings.HasPrefix(path, "/api/") {
			return
		}
		s.Record(entry)
	}
}

// HourlyCount is the number of requests in one hour bucket.
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// StatusCount groups responses by status class.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EndpointLatency is the mean latency of one path.
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData is the aggregated view of the recorded requests.
type DashboardData struct {
	RequestsOverTime []HourlyCount     `json:"requestsOverTime"`
	Endpoints        map[string]int    `json:"endpoints"`
	StatusCodes      []StatusCount     `json:"statusCodes"`
	AvgResponseTimes []EndpointLatency `json:"avgResponseTimes"`
	RecentErrors     []RequestLog      `json:"recentErrors"`
}

// GetDashboardData aggregates the requests of the last periodHours hours.
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().In(s.location)
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	recent := make([]RequestLog, 0)
	for _, l := range s.logs {
		if l.Timestamp.After(since) {
			recent = append(recent, l)
		}
	}

	// Buckets run oldest to newest, the last one holding the current hour.
	currentHour := now.Truncate(time.Hour)
	overTime := make([]HourlyCount, periodHours)
	for i := range overTime {
		bucket := currentHour.Add(-time.Duration(periodHours-1-i) * time.Hour)
		overTime[i] = HourlyCount{Time: bucket.Format("15:00")}
	}

	endpoints := make(map[string]int)
	classes := map[string]int{"2xx Success": 0, "4xx Client Error": 0, "5xx Server Error": 0}
	latencySum := make(map[string]int64)
	for _, l := range recent {
		hoursAgo := int(currentHour.Sub(l.Timestamp.In(s.location).Truncate(time.Hour)) / time.Hour)
		if idx := periodHours - 1 - hoursAgo; idx >= 0 && idx < periodHours {
			overTime[idx].Requests++
		}

		endpoints[l.Path]++
		latencySum[l.Path] += l.LatencyMs

		switch {
		case l.StatusCode >= 500:
			classes["5xx Server Error"]++
		case l.StatusCode >= 400:
			classes["4xx Client Error"]++
		case l.StatusCode >= 200 && l.StatusCode < 300:
			classes["2xx Success"]++
		}
	}

	statusCodes := make([]StatusCount, 0, len(classes))
	for name, value := range classes {
		statusCodes = append(statusCodes, StatusCount{Name: name, Value: value})
	}
	sort.Slice(statusCodes, func(i, j int) bool { return statusCodes[i].Name < statusCodes[j].Name })

	latencies := make([]EndpointLatency, 0, len(latencySum))
	for path, total := range latencySum {
		latencies = append(latencies, EndpointLatency{Endpoint: path, ResponseTime: total / int64(endpoints[path])})
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i].Endpoint < latencies[j].Endpoint })

	recentErrors := make([]RequestLog, 0)
	for i := len(recent) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if recent[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, recent[i])
		}
	}

	return DashboardData{
		RequestsOverTime: overTime,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: latencies,
		RecentErrors:     recentErrors,
	}
}
