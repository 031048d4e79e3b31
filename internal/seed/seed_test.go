package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ledgerrepo "studiodesk/internal/ledger/repository"
	rosterrepo "studiodesk/internal/roster/repository"
	rosterservice "studiodesk/internal/roster/service"
	"studiodesk/pkg/db/memory"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "members": [{"id": "m1", "name": "Jamie", "balances": {"lesson30": 4, "lesson50": 2, "mental": 1, "rental": 0}}],
  "professionals": [{"id": "coach-kim", "kind": "instructor", "weekly_days_off": [0], "one_time_days_off": ["2026-03-10"]}],
  "users": [
    {"id": "a1", "role": "admin", "password": "front-desk-secret"},
    {"id": "coach-kim", "role": "instructor"}
  ]
}`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAndApply(t *testing.T) {
	f, err := Load(writeSeed(t, sample))
	require.NoError(t, err)

	ctx := context.Background()
	store := memory.NewStore()
	repos := Repositories{
		Members:       ledgerrepo.NewMemoryMemberRepository(store),
		Professionals: rosterrepo.NewMemoryProfessionalRepository(store),
		Users:         rosterrepo.NewMemoryUserRepository(store),
	}
	require.NoError(t, Apply(ctx, f, repos, logger.Discard()))

	m, err := repos.Members.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 4, m.Balances.Lesson30)

	p, err := repos.Professionals.FindByID(ctx, "coach-kim")
	require.NoError(t, err)
	assert.Equal(t, model.ProfessionalInstructor, p.Kind)

	dir := rosterservice.NewDirectory(repos.Professionals, repos.Users, logger.Discard())
	assert.NoError(t, dir.VerifyAdminPassword(ctx, "a1", "front-desk-secret"))

	u, err := repos.Users.FindByID(ctx, "a1")
	require.NoError(t, err)
	assert.NotEqual(t, "front-desk-secret", u.PasswordHash)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"members": [`},
		{"admin without password", `{"users": [{"id": "a1", "role": "admin"}]}`},
		{"unknown role", `{"users": [{"id": "x", "role": "janitor"}]}`},
		{"bad weekday", `{"professionals": [{"id": "p", "kind": "instructor", "weekly_days_off": [7]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSeed(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_NormalizesInput(t *testing.T) {
	f, err := Load(writeSeed(t, `{
  "members": [{"id": " m2 ", "name": "  Jamie   Park "}],
  "professionals": [{"id": "p1", "kind": "mental_coach", "one_time_days_off": ["2026-03-10", " 2026-03-10 "]}]
}`))
	require.NoError(t, err)

	assert.Equal(t, "m2", f.Members[0].ID)
	assert.Equal(t, "Jamie Park", f.Members[0].Name)
	assert.Equal(t, []string{"2026-03-10"}, f.Professionals[0].OneTimeDaysOff)
}
