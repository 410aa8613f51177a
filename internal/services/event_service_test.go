package services

import (
	"testing"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent_AdminOnly(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	_, err := env.events.CreateEvent("1234", member.ID, EventInput{
		Title: "Death anniversary", EventDate: time.Now().AddDate(0, 1, 0),
	})
	requireKind(t, err, apperrors.KindForbidden)

	_, err = env.events.CreateEvent("1234", admin.ID, EventInput{
		Title: "   ", EventDate: time.Now().AddDate(0, 1, 0),
	})
	requireKind(t, err, apperrors.KindValidation)

	event, err := env.events.CreateEvent("1234", admin.ID, EventInput{
		Title:     "Death anniversary",
		EventDate: time.Now().AddDate(0, 1, 0),
		Location:  "Ancestral house",
	})
	require.NoError(t, err)
	require.NotZero(t, event.ID)
}

func TestListUpcomingEvents_Window(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	seedFamily(t, env, "1234", admin.ID)

	_, err := env.events.CreateEvent("1234", admin.ID, EventInput{
		Title: "Soon", EventDate: time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	_, err = env.events.CreateEvent("1234", admin.ID, EventInput{
		Title: "Later", EventDate: time.Now().AddDate(0, 0, 20),
	})
	require.NoError(t, err)

	upcoming, err := env.events.ListUpcomingEvents("1234", admin.ID, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "Soon", upcoming[0].Title)

	all, err := env.events.ListEvents("1234", admin.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	env := setupServiceEnv(t)
	admin := seedUser(t, env, "admin@example.com")
	member := seedUser(t, env, "member@example.com")
	seedFamily(t, env, "1234", admin.ID)
	seedMembership(t, env, "1234", member.ID)

	event, err := env.events.CreateEvent("1234", admin.ID, EventInput{
		Title: "Reunion", EventDate: time.Now().AddDate(0, 2, 0),
	})
	require.NoError(t, err)

	_, err = env.events.UpdateEvent("1234", event.ID, member.ID, EventInput{
		Title: "Hijacked", EventDate: event.EventDate,
	})
	requireKind(t, err, apperrors.KindForbidden)

	updated, err := env.events.UpdateEvent("1234", event.ID, admin.ID, EventInput{
		Title:     "Reunion (rescheduled)",
		EventDate: event.EventDate.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	require.Equal(t, "Reunion (rescheduled)", updated.Title)

	require.NoError(t, env.events.DeleteEvent("1234", event.ID, admin.ID))

	err = env.events.DeleteEvent("1234", event.ID, admin.ID)
	requireKind(t, err, apperrors.KindNotFound)
}
