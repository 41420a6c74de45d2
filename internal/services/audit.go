package services

import (
	"log"
	"sync"
	"time"

	"clanboard/internal/db"
	"clanboard/internal/forum"
	"clanboard/internal/models"
)

// AuditService recomputes an entity's denormalized score from the vote
// ledger and repairs any drift. The reconciler keeps the two writes in one
// transaction, so drift should be rare; this worker is the repair path for
// anything else that touches vote rows.
type AuditService struct {
	queue   chan entityRef
	pending map[entityRef]bool
	mu      sync.Mutex
}

type entityRef struct {
	Kind forum.EntityKind
	ID   uint
}

var (
	auditService *AuditService
	once         sync.Once
)

// GetAuditService returns the singleton audit service and starts its worker.
func GetAuditService() *AuditService {
	once.Do(func() {
		auditService = &AuditService{
			queue:   make(chan entityRef, 1000),
			pending: make(map[entityRef]bool),
		}
		go auditService.worker()
	})
	return auditService
}

// Schedule queues an entity for audit. Duplicate requests for an entity
// already queued are dropped.
func (s *AuditService) Schedule(kind forum.EntityKind, id uint) {
	ref := entityRef{Kind: kind, ID: id}

	s.mu.Lock()
	if s.pending[ref] {
		s.mu.Unlock()
		return
	}
	s.pending[ref] = true
	s.mu.Unlock()

	select {
	case s.queue <- ref:
	default:
		s.mu.Lock()
		delete(s.pending, ref)
		s.mu.Unlock()
		log.Printf("Score audit queue full, skipping %s %d", ref.Kind, ref.ID)
	}
}

func (s *AuditService) worker() {
	batch := make([]entityRef, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ref := <-s.queue:
			batch = append(batch, ref)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *AuditService) processBatch(refs []entityRef) {
	for _, ref := range refs {
		s.auditEntity(ref)

		s.mu.Lock()
		delete(s.pending, ref)
		s.mu.Unlock()
	}
}

// auditEntity compares the cached score against the signed sum of the vote
// ledger and rewrites it when they disagree.
func (s *AuditService) auditEntity(ref entityRef) {
	var ledger int64
	var cached int

	if ref.Kind == forum.KindPost {
		var post models.Post
		if err := db.DB.Select("id, score").First(&post, ref.ID).Error; err != nil {
			return
		}
		cached = post.Score
		db.DB.Model(&models.Vote{}).
			Select("COALESCE(SUM(value), 0)").
			Where("post_id = ?", ref.ID).
			Scan(&ledger)
	} else {
		var comment models.Comment
		if err := db.DB.Select("id, score").First(&comment, ref.ID).Error; err != nil {
			return
		}
		cached = comment.Score
		db.DB.Model(&models.Vote{}).
			Select("COALESCE(SUM(value), 0)").
			Where("comment_id = ?", ref.ID).
			Scan(&ledger)
	}

	if int64(cached) == ledger {
		return
	}

	log.Printf("Score drift on %s %d: cached %d, ledger %d, repairing", ref.Kind, ref.ID, cached, ledger)
	var err error
	if ref.Kind == forum.KindPost {
		err = db.DB.Model(&models.Post{}).Where("id = ?", ref.ID).UpdateColumn("score", ledger).Error
	} else {
		err = db.DB.Model(&models.Comment{}).Where("id = ?", ref.ID).UpdateColumn("score", ledger).Error
	}
	if err != nil {
		log.Printf("Score repair failed for %s %d: %v", ref.Kind, ref.ID, err)
	}
}

// StartScheduledAudit sweeps recent and high-scoring posts every night at
// 3 AM so long-lived drift cannot accumulate.
func (s *AuditService) StartScheduledAudit() {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("Starting scheduled score audit...")
			s.auditRecentPosts()
			log.Println("Scheduled score audit done")
		}
	}()
}

// auditRecentPosts audits posts from the last 7 days plus the 30 highest
// scored, deduplicating as it goes.
func (s *AuditService) auditRecentPosts() {
	processed := make(map[uint]bool)
	count := 0

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recent []models.Post
	db.DB.Where("created_at >= ?", sevenDaysAgo).Select("id").Find(&recent)
	for _, p := range recent {
		s.auditEntity(entityRef{Kind: forum.KindPost, ID: p.ID})
		processed[p.ID] = true
		count++
	}

	var top []models.Post
	db.DB.Order("score DESC").Limit(30).Select("id").Find(&top)
	for _, p := range top {
		if !processed[p.ID] {
			s.auditEntity(entityRef{Kind: forum.KindPost, ID: p.ID})
			count++
		}
	}

	log.Printf("Audited %d posts", count)
}
