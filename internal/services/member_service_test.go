package services

import (
	"testing"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceEnv struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	memberRepo     repository.MemberRepository
	familyRepo     repository.FamilyRepository
	requestRepo    repository.MemberRequestRepository
	notifRepo      repository.NotificationRepository
	eventRepo      repository.EventRepository
	confessionRepo repository.ConfessionRepository

	notifications *NotificationService
	members       *MemberService
	families      *FamilyService
	requests      *MemberRequestService
	events        *EventService
	confessions   *ConfessionService
}

func setupServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Family{},
		&models.FamilyMembership{},
		&models.FamilyMember{},
		&models.MemberAchievement{},
		&models.FamilyJoinRequest{},
		&models.MemberRequest{},
		&models.Notification{},
		&models.Event{},
		&models.Confession{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	env := &serviceEnv{
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		memberRepo:     repository.NewMemberRepository(db),
		familyRepo:     repository.NewFamilyRepository(db),
		requestRepo:    repository.NewMemberRequestRepository(db),
		notifRepo:      repository.NewNotificationRepository(db),
		eventRepo:      repository.NewEventRepository(db),
		confessionRepo: repository.NewConfessionRepository(db),
	}
	env.notifications = NewNotificationService(env.notifRepo, env.familyRepo, nil)
	env.members = NewMemberService(env.memberRepo, env.familyRepo, env.notifications)
	env.families = NewFamilyService(env.familyRepo, env.memberRepo, env.userRepo, env.notifications)
	env.requests = NewMemberRequestService(env.requestRepo, env.familyRepo, env.members, env.notifications)
	env.events = NewEventService(env.eventRepo, env.familyRepo, env.notifications)
	env.confessions = NewConfessionService(env.confessionRepo, env.familyRepo, env.notifications)
	return env
}

func seedUser(t *testing.T, env *serviceEnv, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "User " + email}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func seedFamily(t *testing.T, env *serviceEnv, id string, adminID uint64) *models.Family {
	t.Helper()
	family := &models.Family{ID: id, Name: "Test Family", AdminID: adminID}
	require.NoError(t, env.db.Create(family).Error)
	require.NoError(t, env.db.Create(&models.FamilyMembership{
		FamilyID: id,
		UserID:   adminID,
		JoinedAt: time.Now(),
	}).Error)
	return family
}

func seedMembership(t *testing.T, env *serviceEnv, familyID string, userID uint64) {
	t.Helper()
	require.NoError(t, env.db.Create(&models.FamilyMembership{
		FamilyID: familyID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}).Error)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperrors.Error)
	require.True(t, ok, "expected *apperrors.Error, got %T: %v", err, err)
	require.Equal(t, kind, appErr.Kind)
}

func (env *serviceEnv) mustCreateMember(t *testing.T, input CreateMemberInput) *models.FamilyMember {
	t.Helper()
	member, err := env.members.CreateMember(input)
	require.NoError(t, err)
	return member
}

func (env *serviceEnv) reload(t *testing.T, id uint64) *models.FamilyMember {
	t.Helper()
	member, err := env.memberRepo.FindByID(id)
	require.NoError(t, err)
	return member
}

func TestCreateMember_NonAdminForbidden(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	other := seedUser(t, env, "other@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", other.ID)

	_, err := env.members.CreateMember(CreateMemberInput{
		FamilyID:   "1234",
		ActorID:    other.ID,
		Name:       "Someone",
		Gender:     models.GenderMale,
		Generation: 1,
	})
	requireKind(t, err, apperrors.KindForbidden)
}

func TestCreateMember_FatherGenderAndGeneration(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	woman := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Grandma", Gender: models.GenderFemale, Generation: 1,
	})

	_, err := env.members.CreateMember(CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 2,
		FatherID: &woman.ID,
	})
	requireKind(t, err, apperrors.KindValidation)

	man := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Grandpa", Gender: models.GenderMale, Generation: 2,
	})

	// father in the same generation as the child
	_, err = env.members.CreateMember(CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Peer", Gender: models.GenderFemale, Generation: 2,
		FatherID: &man.ID,
	})
	requireKind(t, err, apperrors.KindValidation)
}

func TestCreateMember_ParentsMustShareGeneration(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
	})
	mother := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Mother", Gender: models.GenderFemale, Generation: 2,
	})

	_, err := env.members.CreateMember(CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 3,
		FatherID: &father.ID, MotherID: &mother.ID,
	})
	requireKind(t, err, apperrors.KindValidation)
}

func TestCreateMember_SwappedParentSlotsAreCorrected(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
	})
	mother := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Mother", Gender: models.GenderFemale, Generation: 1,
	})

	// pass the mother in the father slot and vice versa
	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 2,
		FatherID: &mother.ID, MotherID: &father.ID,
	})

	require.NotNil(t, child.FatherID)
	require.NotNil(t, child.MotherID)
	require.Equal(t, father.ID, *child.FatherID)
	require.Equal(t, mother.ID, *child.MotherID)
}

func TestCreateMember_MissingParentDerivedFromSpouse(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
	})
	mother := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Mother", Gender: models.GenderFemale, Generation: 1,
		SpouseID: &father.ID,
	})

	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderFemale, Generation: 2,
		FatherID: &father.ID,
	})

	require.NotNil(t, child.MotherID)
	require.Equal(t, mother.ID, *child.MotherID)
}

func TestCreateMember_SpouseLinkIsReciprocal(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
	})
	wife := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
		SpouseID: &husband.ID,
	})

	require.Equal(t, models.MaritalMarried, wife.MaritalStatus)

	reloaded := env.reload(t, husband.ID)
	require.NotNil(t, reloaded.SpouseID)
	require.Equal(t, wife.ID, *reloaded.SpouseID)
	require.Equal(t, models.MaritalMarried, reloaded.MaritalStatus)
}

func TestCreateMember_SpouseAlreadyMarried(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
	})
	env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
		SpouseID: &husband.ID,
	})

	_, err := env.members.CreateMember(CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Rival", Gender: models.GenderFemale, Generation: 1,
		SpouseID: &husband.ID,
	})
	requireKind(t, err, apperrors.KindConflict)
}

func TestCreateMember_SameGenderSpouseRejectedUnlessOther(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	man := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Man", Gender: models.GenderMale, Generation: 1,
	})

	_, err := env.members.CreateMember(CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Another man", Gender: models.GenderMale, Generation: 1,
		SpouseID: &man.ID,
	})
	requireKind(t, err, apperrors.KindValidation)

	// OTHER pairs with anyone
	partner := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Partner", Gender: models.GenderOther, Generation: 1,
		SpouseID: &man.ID,
	})
	require.NotNil(t, partner.SpouseID)
}

func TestUpdateMember_SelfSpouseRejected(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	member := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Loner", Gender: models.GenderMale, Generation: 1,
	})

	_, err := env.members.UpdateMember("1234", member.ID, admin.ID, UpdateMemberInput{
		SpouseID: &member.ID,
	})
	requireKind(t, err, apperrors.KindValidation)
}

func TestUpdateMember_ChangingSpouseUnlinksOldOne(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	first := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "First wife", Gender: models.GenderFemale, Generation: 1,
	})
	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &first.ID,
	})
	second := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Second wife", Gender: models.GenderFemale, Generation: 1,
	})

	updated, err := env.members.UpdateMember("1234", husband.ID, admin.ID, UpdateMemberInput{
		SpouseID: &second.ID,
	})
	require.NoError(t, err)
	require.Equal(t, second.ID, *updated.SpouseID)

	oldSpouse := env.reload(t, first.ID)
	require.Nil(t, oldSpouse.SpouseID)
	require.Equal(t, models.MaritalSingle, oldSpouse.MaritalStatus)

	newSpouse := env.reload(t, second.ID)
	require.NotNil(t, newSpouse.SpouseID)
	require.Equal(t, husband.ID, *newSpouse.SpouseID)
}

func TestUpdateMember_ClearSpouse(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	wife := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
	})
	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &wife.ID,
	})

	updated, err := env.members.UpdateMember("1234", husband.ID, admin.ID, UpdateMemberInput{
		ClearSpouse: true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.SpouseID)
	require.Equal(t, models.MaritalSingle, updated.MaritalStatus)

	reloaded := env.reload(t, wife.ID)
	require.Nil(t, reloaded.SpouseID)
}

func TestUpdateMember_ClearMotherStaysCleared(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	mother := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Mother", Gender: models.GenderFemale, Generation: 1,
	})
	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
		SpouseID: &mother.ID,
	})
	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 2,
		FatherID: &father.ID,
	})
	require.NotNil(t, child.MotherID)

	// clearing must stick even though the remaining parent has a spouse
	updated, err := env.members.UpdateMember("1234", child.ID, admin.ID, UpdateMemberInput{
		ClearMother: true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.MotherID)
	require.Equal(t, father.ID, *updated.FatherID)
	require.Nil(t, env.reload(t, child.ID).MotherID)
}

func TestDeleteMember_SoftDeleteDetachesEdges(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	wife := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
	})
	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &wife.ID,
	})
	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 2,
		FatherID: &husband.ID,
	})

	require.NoError(t, env.members.DeleteMember("1234", husband.ID, admin.ID))

	deleted := env.reload(t, husband.ID)
	require.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.DeletedTime)
	require.Nil(t, deleted.SpouseID)
	require.NotNil(t, deleted.DeletedData)
	require.Equal(t, wife.ID, *deleted.DeletedData.SpouseID)
	require.Equal(t, []uint64{child.ID}, deleted.DeletedData.ChildrenAsFather)

	require.Nil(t, env.reload(t, wife.ID).SpouseID)
	require.Nil(t, env.reload(t, child.ID).FatherID)
	// mother link derived from the marriage stays in place
	require.NotNil(t, env.reload(t, child.ID).MotherID)

	err := env.members.DeleteMember("1234", husband.ID, admin.ID)
	requireKind(t, err, apperrors.KindConflict)
}

func TestRestoreMember_ReattachesEligibleEdges(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	wife := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
	})
	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &wife.ID,
	})
	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 2,
		FatherID: &husband.ID,
	})

	require.NoError(t, env.members.DeleteMember("1234", husband.ID, admin.ID))

	restored, err := env.members.RestoreMember("1234", husband.ID, admin.ID)
	require.NoError(t, err)
	require.False(t, restored.IsDeleted)
	require.NotNil(t, restored.SpouseID)
	require.Equal(t, wife.ID, *restored.SpouseID)

	require.Equal(t, husband.ID, *env.reload(t, wife.ID).SpouseID)
	require.Equal(t, husband.ID, *env.reload(t, child.ID).FatherID)
}

func TestRestoreMember_SpouseRemarriedStaysUnlinked(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	wife := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
	})
	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &wife.ID,
	})

	require.NoError(t, env.members.DeleteMember("1234", husband.ID, admin.ID))

	// the widow remarries while the husband is deleted
	env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "New husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &wife.ID,
	})

	restored, err := env.members.RestoreMember("1234", husband.ID, admin.ID)
	require.NoError(t, err)
	require.Nil(t, restored.SpouseID)
	require.NotEqual(t, husband.ID, *env.reload(t, wife.ID).SpouseID)
}

func TestRestoreMember_ReparentedChildStaysDetached(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
	})
	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderFemale, Generation: 2,
		FatherID: &father.ID,
	})

	require.NoError(t, env.members.DeleteMember("1234", father.ID, admin.ID))
	require.Nil(t, env.reload(t, child.ID).FatherID)

	// the child gets a new father while the old one is deleted
	stepfather := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Stepfather", Gender: models.GenderMale, Generation: 1,
	})
	_, err := env.members.UpdateMember("1234", child.ID, admin.ID, UpdateMemberInput{
		FatherID: &stepfather.ID,
	})
	require.NoError(t, err)

	_, err = env.members.RestoreMember("1234", father.ID, admin.ID)
	require.NoError(t, err)

	// the occupied parent slot is not overwritten by the snapshot
	require.Equal(t, stepfather.ID, *env.reload(t, child.ID).FatherID)
}

func TestRestoreMember_NotDeleted(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	member := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Alive", Gender: models.GenderMale, Generation: 1,
	})

	_, err := env.members.RestoreMember("1234", member.ID, admin.ID)
	requireKind(t, err, apperrors.KindConflict)
}

func TestPermanentlyDeleteMember_RequiresSoftDelete(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	member := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Target", Gender: models.GenderMale, Generation: 1,
	})
	_, err := env.members.CreateAchievement("1234", member.ID, admin.ID, AchievementInput{
		Title: "Award", Year: 2020,
	})
	require.NoError(t, err)

	err = env.members.PermanentlyDeleteMember("1234", member.ID, admin.ID)
	requireKind(t, err, apperrors.KindValidation)

	require.NoError(t, env.members.DeleteMember("1234", member.ID, admin.ID))
	require.NoError(t, env.members.PermanentlyDeleteMember("1234", member.ID, admin.ID))

	_, err = env.memberRepo.FindByID(member.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.MemberAchievement{}).
		Where("member_id = ?", member.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetMemberByID_AssemblesNeighborhood(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
	})
	mother := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Mother", Gender: models.GenderFemale, Generation: 1,
		SpouseID: &father.ID,
	})
	eldest := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Eldest", Gender: models.GenderMale, Generation: 2,
		FatherID: &father.ID, BirthDate: datePtr(1990, time.March, 1),
	})
	youngest := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Youngest", Gender: models.GenderFemale, Generation: 2,
		FatherID: &father.ID, BirthDate: datePtr(1995, time.July, 20),
	})
	grandchild := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Grandchild", Gender: models.GenderMale, Generation: 3,
		FatherID: &eldest.ID,
	})

	detail, err := env.members.GetMemberByID("1234", eldest.ID, admin.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.Father)
	require.Equal(t, father.ID, detail.Father.ID)
	require.NotNil(t, detail.Mother)
	require.Equal(t, mother.ID, detail.Mother.ID)

	require.Len(t, detail.Children, 1)
	require.Equal(t, grandchild.ID, detail.Children[0].ID)

	require.Len(t, detail.Siblings, 1)
	require.Equal(t, youngest.ID, detail.Siblings[0].ID)

	require.Equal(t, 1, detail.MyOrder)

	youngestDetail, err := env.members.GetMemberByID("1234", youngest.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, 2, youngestDetail.MyOrder)
}

func TestGetMemberByID_ExplicitChildOrderWins(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	father := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Father", Gender: models.GenderMale, Generation: 1,
	})
	order := 5
	child := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Child", Gender: models.GenderMale, Generation: 2,
		FatherID: &father.ID, ChildOrder: &order,
	})

	detail, err := env.members.GetMemberByID("1234", child.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, 5, detail.MyOrder)
}

func TestGetFamilyMembers_FiltersAndDeletedExclusion(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	alive := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Nguyen Van An", Gender: models.GenderMale, Generation: 1,
	})
	dead := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Nguyen Van Binh", Gender: models.GenderMale, Generation: 1,
		DeathDate: datePtr(2000, time.January, 1),
	})
	removed := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Removed", Gender: models.GenderFemale, Generation: 2,
	})
	require.NoError(t, env.members.DeleteMember("1234", removed.ID, admin.ID))

	members, err := env.members.GetFamilyMembers(admin.ID, repository.MemberFilter{FamilyID: "1234"})
	require.NoError(t, err)
	require.Len(t, members, 2)

	aliveOnly := true
	members, err = env.members.GetFamilyMembers(admin.ID, repository.MemberFilter{
		FamilyID: "1234", Alive: &aliveOnly,
	})
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, alive.ID, members[0].ID)

	members, err = env.members.GetFamilyMembers(admin.ID, repository.MemberFilter{
		FamilyID: "1234", NameContains: "binh",
	})
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, dead.ID, members[0].ID)

	members, err = env.members.GetFamilyMembers(admin.ID, repository.MemberFilter{
		FamilyID: "1234", IncludeDeleted: true,
	})
	require.NoError(t, err)
	require.Len(t, members, 3)
}

func TestYearlyReport_GroupsByYear(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	member := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Achiever", Gender: models.GenderFemale, Generation: 1,
	})

	for _, a := range []AchievementInput{
		{Title: "Degree", Year: 2019},
		{Title: "Promotion", Year: 2021},
		{Title: "Award", Year: 2021},
	} {
		_, err := env.members.CreateAchievement("1234", member.ID, admin.ID, a)
		require.NoError(t, err)
	}

	report, err := env.members.GetYearlyReport("1234", admin.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, report, 2)
	require.Equal(t, 2019, report[0].Year)
	require.Equal(t, 1, report[0].Count)
	require.Equal(t, 2021, report[1].Year)
	require.Equal(t, 2, report[1].Count)

	from := 2020
	report, err = env.members.GetYearlyReport("1234", admin.ID, &from, nil)
	require.NoError(t, err)
	require.Len(t, report, 1)
	require.Equal(t, 2021, report[0].Year)
}
