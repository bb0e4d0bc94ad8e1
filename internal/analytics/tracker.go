// Package analytics records privacy-conscious page views: IPs are salted and
// hashed before storage, Do Not Track is respected, and records older than the
// retention window are removed on a schedule.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Zachkp/portfolio/internal/logger"
)

// RetentionMonths is how long visitor records are kept.
const RetentionMonths = 12

// CleanupSchedule runs the retention job nightly at midnight.
const CleanupSchedule = "0 0 0 * * *"

// VisitorMetric is one recorded page view.
type VisitorMetric struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	HashedIP  string    `gorm:"not null;index" json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `gorm:"index" json:"path"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Country   string    `json:"country,omitempty"`
}

func (VisitorMetric) TableName() string { return "visitors" }

type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type Stats struct {
	TotalVisitors    int64            `json:"total_visitors"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	VisitorsToday    int64            `json:"visitors_today"`
	VisitorsThisWeek int64            `json:"visitors_this_week"`
	TopPaths         []PathStat       `json:"top_paths"`
	RecentVisitors   []VisitorMetric  `json:"recent_visitors"`
	Content          map[string]int64 `json:"content,omitempty"`
}

// skipPrefixes are never tracked.
var skipPrefixes = []string{"/static/", "/images/", "/admin", "/api/", "/favicon", "/privacy", "/health"}

type Tracker struct {
	db   *gorm.DB
	salt string
	now  func() time.Time

	wg   sync.WaitGroup
	cron *cron.Cron
}

// NewTracker migrates the visitors table. The IP salt is random per process,
// so hashes cannot be linked across restarts.
func NewTracker(db *gorm.DB) (*Tracker, error) {
	if err := db.AutoMigrate(&VisitorMetric{}); err != nil {
		return nil, fmt.Errorf("failed to migrate visitors table: %w", err)
	}
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate hashing salt: %w", err)
	}
	logger.Info("visitor tracking enabled with hashed IP addresses")
	return &Tracker{db: db, salt: hex.EncodeToString(salt), now: time.Now}, nil
}

// HashIP is stable per IP for the life of the process.
func (t *Tracker) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + t.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Middleware records page views in the background.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			if err := t.Record(context.Background(), ip, ua, path); err != nil {
				logger.Error("error recording visitor", "error", err)
			}
		}()
		c.Next()
	}
}

func skip(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (t *Tracker) Record(ctx context.Context, ip, userAgent, path string) error {
	m := VisitorMetric{
		HashedIP:  t.HashIP(ip),
		UserAgent: userAgent,
		Path:      path,
		Timestamp: t.now().UTC(),
	}
	return t.db.WithContext(ctx).Create(&m).Error
}

// Wait blocks until background recordings have finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Cleanup removes records older than RetentionMonths.
func (t *Tracker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := t.now().UTC().AddDate(0, -RetentionMonths, 0)
	res := t.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&VisitorMetric{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clean up visitor data: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Info("privacy cleanup removed old visitor records", "rows", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// Start runs Cleanup once and then on CleanupSchedule.
func (t *Tracker) Start() error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(CleanupSchedule, t.cleanupJob); err != nil {
		return fmt.Errorf("failed to create cleanup job: %w", err)
	}
	t.cleanupJob()
	c.Start()
	t.cron = c
	logger.Info("visitor cleanup scheduled", "schedule", CleanupSchedule)
	return nil
}

func (t *Tracker) cleanupJob() {
	if _, err := t.Cleanup(context.Background()); err != nil {
		logger.Error("visitor cleanup failed", "error", err)
	}
}

// Stop halts the schedule and waits for running jobs and recordings.
func (t *Tracker) Stop() {
	if t.cron != nil {
		<-t.cron.Stop().Done()
	}
	t.wg.Wait()
}

func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	db := t.db.WithContext(ctx)
	now := t.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stats := &Stats{TopPaths: []PathStat{}, RecentVisitors: []VisitorMetric{}}

	if err := db.Model(&VisitorMetric{}).Count(&stats.TotalVisitors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&VisitorMetric{}).Distinct("hashed_ip").Count(&stats.UniqueVisitors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&VisitorMetric{}).Where("timestamp >= ?", today).Count(&stats.VisitorsToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&VisitorMetric{}).Where("timestamp >= ?", now.Add(-7*24*time.Hour)).Count(&stats.VisitorsThisWeek).Error; err != nil {
		return nil, err
	}

	err := db.Model(&VisitorMetric{}).
		Select("path, COUNT(*) AS views").
		Group("path").
		Order("views DESC, path ASC").
		Limit(10).
		Scan(&stats.TopPaths).Error
	if err != nil {
		return nil, err
	}

	if err := db.Order("timestamp DESC, id DESC").Limit(50).Find(&stats.RecentVisitors).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
