package services

import (
	"testing"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string                  { return &s }
func intPtr(i int) *int                        { return &i }
func genderPtr(g models.Gender) *models.Gender { return &g }

func TestCreateMemberRequest_NonMemberForbidden(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	outsider := seedUser(t, env, "outsider@example.com")
	seedFamily(t, env, "1234", admin.ID)

	_, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID:    "1234",
		RequesterID: outsider.ID,
		Action:      models.MemberRequestAdd,
		Mutation: &MemberMutation{
			Name: strPtr("Someone"), Gender: genderPtr(models.GenderMale), Generation: intPtr(1),
		},
	})
	requireKind(t, err, apperrors.KindForbidden)
}

func TestCreateMemberRequest_ValidatesPayloadPerAction(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	_, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action:   models.MemberRequestAdd,
		Mutation: &MemberMutation{Name: strPtr("No gender")},
	})
	requireKind(t, err, apperrors.KindValidation)

	_, err = env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestEdit,
	})
	requireKind(t, err, apperrors.KindValidation)

	_, err = env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestDelete,
	})
	requireKind(t, err, apperrors.KindValidation)

	_, err = env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestAction("RENAME"),
	})
	requireKind(t, err, apperrors.KindValidation)
}

func TestCreateMemberRequest_NotifiesAdmin(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	request, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestAdd,
		Mutation: &MemberMutation{
			Name: strPtr("Nguyen Van An"), Gender: genderPtr(models.GenderMale), Generation: intPtr(2),
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.RequestPending, request.Status)
	require.NotEmpty(t, request.Payload)

	var notifs []models.Notification
	require.NoError(t, env.db.Where("user_id = ?", admin.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	require.Equal(t, models.NotifMemberRequest, notifs[0].Type)
}

func TestApproveMemberRequest_AddMaterializesMember(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	request, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestAdd,
		Mutation: &MemberMutation{
			Name:       strPtr("Nguyen Van An"),
			Gender:     genderPtr(models.GenderMale),
			Generation: intPtr(2),
			BirthDate:  datePtr(1990, 6, 15),
		},
	})
	require.NoError(t, err)

	// members cannot approve their own requests
	_, err = env.requests.ApproveRequest("1234", request.ID, member.ID)
	requireKind(t, err, apperrors.KindForbidden)

	approved, err := env.requests.ApproveRequest("1234", request.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestApproved, approved.Status)
	require.NotNil(t, approved.RespondedAt)

	var created models.FamilyMember
	require.NoError(t, env.db.Where("family_id = ? AND name = ?", "1234", "Nguyen Van An").First(&created).Error)
	require.Equal(t, models.GenderMale, created.Gender)
	require.Equal(t, 2, created.Generation)

	// terminal requests cannot be processed again
	_, err = env.requests.ApproveRequest("1234", request.ID, admin.ID)
	requireKind(t, err, apperrors.KindConflict)
}

func TestApproveMemberRequest_EditAppliesMutation(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	target := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Old name", Gender: models.GenderFemale, Generation: 1,
	})

	request, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action:   models.MemberRequestEdit,
		MemberID: &target.ID,
		Mutation: &MemberMutation{
			Name:       strPtr("New name"),
			Occupation: strPtr("Farmer"),
		},
	})
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest("1234", request.ID, admin.ID)
	require.NoError(t, err)

	updated := env.reload(t, target.ID)
	require.Equal(t, "New name", updated.Name)
	require.Equal(t, "Farmer", updated.Occupation)
	require.Equal(t, models.GenderFemale, updated.Gender)
}

func TestApproveMemberRequest_DeleteSoftDeletes(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	target := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "To remove", Gender: models.GenderMale, Generation: 1,
	})

	request, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action:   models.MemberRequestDelete,
		MemberID: &target.ID,
	})
	require.NoError(t, err)

	_, err = env.requests.ApproveRequest("1234", request.ID, admin.ID)
	require.NoError(t, err)

	deleted := env.reload(t, target.ID)
	require.True(t, deleted.IsDeleted)
	require.NotNil(t, deleted.DeletedData)
}

func TestApproveMemberRequest_FailedMutationLeavesRequestPending(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	wife := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Wife", Gender: models.GenderFemale, Generation: 1,
	})
	husband := env.mustCreateMember(t, CreateMemberInput{
		FamilyID: "1234", ActorID: admin.ID,
		Name: "Husband", Gender: models.GenderMale, Generation: 1,
		SpouseID: &wife.ID,
	})

	request, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestAdd,
		Mutation: &MemberMutation{
			Name:       strPtr("Suitor"),
			Gender:     genderPtr(models.GenderMale),
			Generation: intPtr(1),
			SpouseID:   &wife.ID,
		},
	})
	require.NoError(t, err)

	// the proposed spouse is already married, so the mutation fails and
	// nothing of the approval may stick
	_, err = env.requests.ApproveRequest("1234", request.ID, admin.ID)
	requireKind(t, err, apperrors.KindConflict)

	var count int64
	require.NoError(t, env.db.Model(&models.FamilyMember{}).
		Where("family_id = ? AND name = ?", "1234", "Suitor").Count(&count).Error)
	require.Zero(t, count)

	var reloaded models.MemberRequest
	require.NoError(t, env.db.First(&reloaded, request.ID).Error)
	require.Equal(t, models.RequestPending, reloaded.Status)

	// once the blocker is gone, the same request approves cleanly
	_, err = env.members.UpdateMember("1234", husband.ID, admin.ID, UpdateMemberInput{
		ClearSpouse: true,
	})
	require.NoError(t, err)

	approved, err := env.requests.ApproveRequest("1234", request.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestApproved, approved.Status)
	require.NoError(t, env.db.Model(&models.FamilyMember{}).
		Where("family_id = ? AND name = ?", "1234", "Suitor").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRejectMemberRequest(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	request, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestAdd,
		Mutation: &MemberMutation{
			Name: strPtr("Nobody"), Gender: genderPtr(models.GenderOther), Generation: intPtr(3),
		},
	})
	require.NoError(t, err)

	rejected, err := env.requests.RejectRequest("1234", request.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestRejected, rejected.Status)

	var count int64
	require.NoError(t, env.db.Model(&models.FamilyMember{}).Where("family_id = ?", "1234").Count(&count).Error)
	require.Zero(t, count)

	_, err = env.requests.RejectRequest("1234", request.ID, admin.ID)
	requireKind(t, err, apperrors.KindConflict)
}

func TestListMemberRequests_AdminOnly(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	_, err := env.requests.CreateRequest(CreateMemberRequestInput{
		FamilyID: "1234", RequesterID: member.ID,
		Action: models.MemberRequestAdd,
		Mutation: &MemberMutation{
			Name: strPtr("Someone"), Gender: genderPtr(models.GenderFemale), Generation: intPtr(1),
		},
	})
	require.NoError(t, err)

	_, err = env.requests.ListRequests("1234", member.ID, nil)
	requireKind(t, err, apperrors.KindForbidden)

	pending := models.RequestPending
	requests, err := env.requests.ListRequests("1234", admin.ID, &pending)
	require.NoError(t, err)
	require.Len(t, requests, 1)
}
