package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kinship-app/kinship/internal/constants"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
)

// Scheduler periodically scans every family for upcoming birthdays,
// wedding anniversaries and events, and fans out reminder notifications.
// Reminders already sent today for the same entity are suppressed.
type Scheduler struct {
	familyRepo repository.FamilyRepository
	memberRepo repository.MemberRepository
	eventRepo  repository.EventRepository
	notifRepo  repository.NotificationRepository
	notifier   *NotificationService
	interval   time.Duration
	stopCh     chan struct{}
}

// NewScheduler creates a new Scheduler. The interval is normally 24h and
// comes from configuration.
func NewScheduler(
	familyRepo repository.FamilyRepository,
	memberRepo repository.MemberRepository,
	eventRepo repository.EventRepository,
	notifRepo repository.NotificationRepository,
	notifier *NotificationService,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		familyRepo: familyRepo,
		memberRepo: memberRepo,
		eventRepo:  eventRepo,
		notifRepo:  notifRepo,
		notifier:   notifier,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the reminder loop in a background goroutine. The first
// scan runs immediately.
func (s *Scheduler) Start() {
	go func() {
		log.Printf("[Scheduler] started, interval %s", s.interval)
		s.RunOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunOnce()
			case <-s.stopCh:
				log.Println("[Scheduler] stopped")
				return
			}
		}
	}()
}

// Stop terminates the reminder loop.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

// RunOnce scans all families once. Exported so tests and operators can
// trigger a scan without waiting for the ticker.
func (s *Scheduler) RunOnce() {
	families, err := s.familyRepo.ListAll()
	if err != nil {
		log.Printf("[Scheduler] failed to list families: %v", err)
		return
	}

	now := time.Now()
	for _, family := range families {
		if err := s.scanFamily(family, now); err != nil {
			log.Printf("[Scheduler] scan failed for family %s: %v", family.ID, err)
		}
	}
}

func (s *Scheduler) scanFamily(family models.Family, now time.Time) error {
	members, err := s.memberRepo.List(repository.MemberFilter{FamilyID: family.ID})
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	for _, m := range members {
		if m.BirthDate != nil && m.IsAlive() {
			days, ok := daysUntilOccurrence(*m.BirthDate, now, constants.AnniversaryWindowDays)
			if ok {
				title := fmt.Sprintf("%s's birthday is coming up", m.Name)
				if days == 0 {
					title = fmt.Sprintf("Today is %s's birthday", m.Name)
				}
				s.remind(family.ID, models.NotifBirthdayReminder, "member", m.ID, title,
					fmt.Sprintf("%s turns a year older on %s", m.Name, occurrenceDate(*m.BirthDate, now).Format("January 2")))
			}
		}

		if m.MarriageDate != nil && coupleAnchor(m) {
			days, ok := daysUntilOccurrence(*m.MarriageDate, now, constants.AnniversaryWindowDays)
			if ok {
				title := fmt.Sprintf("%s's wedding anniversary is coming up", m.Name)
				if days == 0 {
					title = fmt.Sprintf("Today is %s's wedding anniversary", m.Name)
				}
				s.remind(family.ID, models.NotifAnniversaryReminder, "anniversary", m.ID, title,
					fmt.Sprintf("The anniversary falls on %s", occurrenceDate(*m.MarriageDate, now).Format("January 2")))
			}
		}
	}

	from := startOfDay(now)
	to := from.AddDate(0, 0, constants.EventWindowDays+1)
	events, err := s.eventRepo.ListInWindow(family.ID, from, to)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	for _, e := range events {
		s.remind(family.ID, models.NotifEventReminder, "event", e.ID,
			fmt.Sprintf("Upcoming event: %s", e.Title),
			fmt.Sprintf("%s takes place on %s", e.Title, e.EventDate.Format("January 2")))
	}

	return nil
}

func (s *Scheduler) remind(familyID string, ntype models.NotificationType, refType string, refID uint64, title, message string) {
	exists, err := s.notifRepo.ExistsForEntityToday(ntype, refType, refID)
	if err != nil {
		log.Printf("[Scheduler] duplicate check failed for %s: %v", models.ReminderRef(refType, refID), err)
		return
	}
	if exists {
		return
	}

	data, err := json.Marshal(map[string]string{"ref": models.ReminderRef(refType, refID)})
	if err != nil {
		log.Printf("[Scheduler] payload encoding failed: %v", err)
		return
	}

	err = s.notifier.NotifyFamilyMembers(familyID, nil, CreateNotificationInput{
		FamilyID: &familyID,
		Type:     ntype,
		Title:    title,
		Message:  message,
		Data:     data,
	})
	if err != nil {
		log.Printf("[Scheduler] reminder fan-out failed for family %s: %v", familyID, err)
	}
}

// coupleAnchor reports whether this member carries the anniversary
// reminder for the couple. Without it both spouses would produce one each.
func coupleAnchor(m models.FamilyMember) bool {
	return m.SpouseID == nil || *m.SpouseID > m.ID
}

// daysUntilOccurrence projects the month and day of a date onto the
// current year, rolling to next year when it already passed, and reports
// how far away it is and whether it falls inside the window.
func daysUntilOccurrence(date, now time.Time, windowDays int) (int, bool) {
	occurrence := occurrenceDate(date, now)
	days := int(occurrence.Sub(startOfDay(now)).Hours() / 24)
	return days, days >= 0 && days <= windowDays
}

func occurrenceDate(date, now time.Time) time.Time {
	occurrence := time.Date(now.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if occurrence.Before(startOfDay(now)) {
		occurrence = occurrence.AddDate(1, 0, 0)
	}
	return occurrence
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
