package services

import (
	"testing"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/constants"
	"github.com/kinship-app/kinship/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateConfession_NonMemberForbidden(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	outsider := seedUser(t, env, "outsider@example.com")
	seedFamily(t, env, "1234", admin.ID)

	_, err := env.confessions.CreateConfession(CreateConfessionInput{
		FamilyID: "1234",
		AuthorID: outsider.ID,
		Content:  "I broke the vase",
	})
	requireKind(t, err, apperrors.KindForbidden)
}

func TestCreateConfession_DailyCap(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	for i := 0; i < constants.ConfessionDailyCap; i++ {
		_, err := env.confessions.CreateConfession(CreateConfessionInput{
			FamilyID: "1234",
			AuthorID: admin.ID,
			Content:  "confession",
		})
		require.NoError(t, err)
	}

	_, err := env.confessions.CreateConfession(CreateConfessionInput{
		FamilyID: "1234",
		AuthorID: admin.ID,
		Content:  "one too many",
	})
	requireKind(t, err, apperrors.KindRateLimited)
}

func TestListConfessions_NewestFirst(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	first, err := env.confessions.CreateConfession(CreateConfessionInput{
		FamilyID: "1234", AuthorID: admin.ID, Content: "first",
	})
	require.NoError(t, err)
	second, err := env.confessions.CreateConfession(CreateConfessionInput{
		FamilyID: "1234", AuthorID: admin.ID, Content: "second", IsAnonymous: true,
	})
	require.NoError(t, err)

	confessions, total, err := env.confessions.ListConfessions("1234", admin.ID, utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, second.ID, confessions[0].ID)
	require.Equal(t, first.ID, confessions[1].ID)
	require.True(t, confessions[0].IsAnonymous)

	page, total, err := env.confessions.ListConfessions("1234", admin.ID, utils.PaginationParams{Page: 2, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	require.Equal(t, first.ID, page[0].ID)
}

func TestDeleteConfession_AuthorOrAdminOnly(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	author := seedUser(t, env, "author@example.com")
	bystander := seedUser(t, env, "bystander@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", author.ID)
	seedMembership(t, env, "1234", bystander.ID)

	confession, err := env.confessions.CreateConfession(CreateConfessionInput{
		FamilyID: "1234", AuthorID: author.ID, Content: "secret",
	})
	require.NoError(t, err)

	err = env.confessions.DeleteConfession("1234", confession.ID, bystander.ID)
	requireKind(t, err, apperrors.KindForbidden)

	require.NoError(t, env.confessions.DeleteConfession("1234", confession.ID, author.ID))

	adminDeletable, err := env.confessions.CreateConfession(CreateConfessionInput{
		FamilyID: "1234", AuthorID: author.ID, Content: "another",
	})
	require.NoError(t, err)
	require.NoError(t, env.confessions.DeleteConfession("1234", adminDeletable.ID, admin.ID))
}
