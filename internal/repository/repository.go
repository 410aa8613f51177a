package repository

import (
	"time"

	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// MemberFilter holds filtering options for listing family members
type MemberFilter struct {
	FamilyID       string
	Alive          *bool
	Generation     *int
	Gender         *models.Gender
	NameContains   string
	IncludeDeleted bool
}

// MemberRepository defines the interface for kinship-graph data access.
// Multi-step relationship mutations run through WithTx so reciprocal
// spouse writes and child-pointer updates commit atomically.
type MemberRepository interface {
	// Create creates a new family member
	Create(member *models.FamilyMember) error

	// FindByID finds a member by ID regardless of family
	FindByID(id uint64) (*models.FamilyMember, error)

	// FindInFamily finds a member by ID scoped to a family
	FindInFamily(familyID string, id uint64) (*models.FamilyMember, error)

	// List retrieves members of a family with filtering,
	// ordered by generation then birth date ascending
	List(filter MemberFilter) ([]models.FamilyMember, error)

	// Update saves all fields of a member, including cleared pointers
	Update(member *models.FamilyMember) error

	// UpdateColumns applies a partial column update to one member
	UpdateColumns(id uint64, values map[string]interface{}) error

	// HardDelete removes the member row permanently
	HardDelete(id uint64) error

	// ListChildren lists non-deleted members whose father or mother
	// column (parentColumn) equals parentID
	ListChildren(parentColumn string, parentID uint64) ([]models.FamilyMember, error)

	// FindByLinkedUser finds the member in a family linked to a user
	FindByLinkedUser(familyID string, userID uint64) (*models.FamilyMember, error)

	// ListUnlinked lists non-deleted members of a family with no linked user
	ListUnlinked(familyID string) ([]models.FamilyMember, error)

	// CreateAchievement creates an achievement for a member
	CreateAchievement(a *models.MemberAchievement) error

	// FindAchievement finds an achievement by ID
	FindAchievement(id uint64) (*models.MemberAchievement, error)

	// ListAchievements lists achievements of a member, optionally
	// bounded by an inclusive year range
	ListAchievements(memberID uint64, fromYear, toYear *int) ([]models.MemberAchievement, error)

	// ListFamilyAchievements lists achievements across all members of a
	// family, optionally bounded by an inclusive year range
	ListFamilyAchievements(familyID string, fromYear, toYear *int) ([]models.MemberAchievement, error)

	// UpdateAchievement updates an achievement
	UpdateAchievement(a *models.MemberAchievement) error

	// DeleteAchievement deletes one achievement
	DeleteAchievement(id uint64) error

	// DeleteAchievementsByMember purges all achievements of a member
	DeleteAchievementsByMember(memberID uint64) error

	// WithTx runs fn against a repository bound to a single transaction
	WithTx(fn func(MemberRepository) error) error
}

// FamilyRepository defines the interface for family and join-request data access
type FamilyRepository interface {
	// Create creates a family and the admin's membership row in one transaction
	Create(family *models.Family, membership *models.FamilyMembership) error

	// FindByID finds a family by its 4-digit code
	FindByID(id string) (*models.Family, error)

	// ExistsByID reports whether a family code is already taken
	ExistsByID(id string) (bool, error)

	// ListAll lists every family (scheduler scan)
	ListAll() ([]models.Family, error)

	// Update updates a family
	Update(family *models.Family) error

	// Delete deletes a family and its scoped child rows in one transaction
	Delete(id string) error

	// AddMembership adds a user to a family
	AddMembership(m *models.FamilyMembership) error

	// RemoveMembership removes a user from a family
	RemoveMembership(familyID string, userID uint64) error

	// FindMembership finds a specific membership row
	FindMembership(familyID string, userID uint64) (*models.FamilyMembership, error)

	// ListMemberships lists all members of a family
	ListMemberships(familyID string) ([]models.FamilyMembership, error)

	// ListMembershipsByUser lists all families a user belongs to
	ListMembershipsByUser(userID uint64) ([]models.FamilyMembership, error)

	// CountMemberships counts the users of a family
	CountMemberships(familyID string) (int64, error)

	// CreateJoinRequest creates a join request
	CreateJoinRequest(r *models.FamilyJoinRequest) error

	// FindJoinRequest finds the request of a user for a family, any status
	FindJoinRequest(familyID string, userID uint64) (*models.FamilyJoinRequest, error)

	// FindJoinRequestByID finds a join request by ID
	FindJoinRequestByID(id uint64) (*models.FamilyJoinRequest, error)

	// ListJoinRequests lists requests of a family filtered by status
	ListJoinRequests(familyID string, status *models.RequestStatus) ([]models.FamilyJoinRequest, error)

	// UpdateJoinRequest updates a join request
	UpdateJoinRequest(r *models.FamilyJoinRequest) error

	// DeleteJoinRequest deletes a join request row
	DeleteJoinRequest(id uint64) error

	// WithTx runs fn against family and member repositories bound to
	// one shared transaction; the join workflow and leave both touch
	// member link columns alongside membership rows
	WithTx(fn func(families FamilyRepository, members MemberRepository) error) error
}

// MemberRequestRepository defines the interface for proposed member mutations
type MemberRequestRepository interface {
	// Create creates a member request
	Create(r *models.MemberRequest) error

	// FindByID finds a member request by ID
	FindByID(id uint64) (*models.MemberRequest, error)

	// ListByFamily lists requests of a family filtered by status
	ListByFamily(familyID string, status *models.RequestStatus) ([]models.MemberRequest, error)

	// Update updates a member request
	Update(r *models.MemberRequest) error

	// WithTx runs fn against request, member and family repositories
	// bound to one shared transaction; approval executes the embedded
	// mutation and the status flip together
	WithTx(fn func(requests MemberRequestRepository, members MemberRepository, families FamilyRepository) error) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(n *models.Notification) error

	// CreateBatch creates many notifications at once
	CreateBatch(ns []models.Notification) error

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// ListByUser lists a user's notifications, newest first, paginated
	ListByUser(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// MarkRead marks one notification as read
	MarkRead(id uint64) error

	// MarkAllRead marks all of a user's notifications as read
	MarkAllRead(userID uint64) error

	// ExistsForEntityToday reports whether a notification of the given
	// type referencing the entity was already created today
	ExistsForEntityToday(ntype models.NotificationType, refType string, refID uint64) (bool, error)
}

// EventRepository defines the interface for family event data access
type EventRepository interface {
	// Create creates an event
	Create(e *models.Event) error

	// FindByID finds an event by ID
	FindByID(id uint64) (*models.Event, error)

	// ListByFamily lists events of a family ordered by event date
	ListByFamily(familyID string) ([]models.Event, error)

	// ListInWindow lists events of a family with event date in [from, to)
	ListInWindow(familyID string, from, to time.Time) ([]models.Event, error)

	// Update updates an event
	Update(e *models.Event) error

	// Delete soft deletes an event
	Delete(id uint64) error
}

// ConfessionRepository defines the interface for confession data access
type ConfessionRepository interface {
	// Create creates a confession
	Create(cf *models.Confession) error

	// FindByID finds a confession by ID
	FindByID(id uint64) (*models.Confession, error)

	// ListByFamily lists confessions of a family, newest first, paginated
	ListByFamily(familyID string, params utils.PaginationParams) ([]models.Confession, int64, error)

	// CountByAuthorSince counts an author's confessions in a family since t
	CountByAuthorSince(familyID string, authorID uint64, since time.Time) (int64, error)

	// Delete soft deletes a confession
	Delete(id uint64) error
}
