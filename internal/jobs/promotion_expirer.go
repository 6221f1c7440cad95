package jobs

import (
	"log"
	"time"

	"github.com/nolanmoser7/ShiftSurge-sub000/internal/metrics"
	"github.com/nolanmoser7/ShiftSurge-sub000/internal/services"
)

// PromotionExpirer sweeps promotions whose end date has passed into the
// expired status
type PromotionExpirer struct {
	promotionService *services.PromotionService
	interval         time.Duration
	stopChan         chan struct{}
}

// NewPromotionExpirer creates a new promotion expiry job
func NewPromotionExpirer(promotionService *services.PromotionService, interval time.Duration) *PromotionExpirer {
	return &PromotionExpirer{
		promotionService: promotionService,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

// Start begins the sweep loop. It runs one sweep immediately so a restart
// catches up on promotions that lapsed while the process was down.
func (pe *PromotionExpirer) Start() {
	log.Printf("[PromotionExpirer] Starting promotion expiry job (interval: %v)", pe.interval)

	pe.sweep()

	ticker := time.NewTicker(pe.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pe.sweep()
		case <-pe.stopChan:
			log.Println("[PromotionExpirer] Stopping promotion expiry job")
			return
		}
	}
}

// Stop stops the sweep loop
func (pe *PromotionExpirer) Stop() {
	close(pe.stopChan)
}

func (pe *PromotionExpirer) sweep() {
	count, err := pe.promotionService.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("[PromotionExpirer] Error expiring promotions: %v", err)
		return
	}
	if count > 0 {
		metrics.PromotionsExpired.Add(float64(count))
		log.Printf("[PromotionExpirer] Expired %d promotion(s)", count)
	}
}
