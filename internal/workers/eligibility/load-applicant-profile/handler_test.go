// internal/workers/eligibility/load-applicant-profile/handler_test.go
package loadapplicantprofile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"property-eligibility-workers/internal/common/config"
	apperrors "property-eligibility-workers/internal/common/errors"
	"property-eligibility-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileQueryPattern = `SELECT profile_data, email, phone, full_name, locale FROM applicant_profiles WHERE applicant_id = \$1`

var profileColumns = []string{"profile_data", "email", "phone", "full_name", "locale"}

func createTestConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 15 * time.Minute,
	}
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client) *Handler {
	return NewHandler(createTestConfig(), db, redisClient, logger.NewTestLogger(t))
}

func profileRow() *sqlmock.Rows {
	return sqlmock.NewRows(profileColumns).AddRow(
		[]byte(`{"monthlyIncome": 60000000, "employmentStatus": "permanent", "plannedInvestmentAmount": "5,000,000,000"}`),
		"ana@example.com", "+6281234567890", "Ana Santos", "id",
	)
}

func TestHandler_Execute_LoadsFromDatabaseAndCaches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr, redisClient := setupMiniredis(t)

	mock.ExpectQuery(profileQueryPattern).
		WithArgs("app-001").
		WillReturnRows(profileRow())

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{ApplicantID: " app-001 "})

	require.NoError(t, err)
	assert.False(t, output.CacheHit)
	assert.Equal(t, "app-001", output.ApplicantID)
	assert.Equal(t, "ana@example.com", output.Email)
	assert.Equal(t, "Ana Santos", output.FullName)
	assert.Equal(t, "id", output.Locale)
	assert.Equal(t, json.Number("60000000"), output.Profile["monthlyIncome"])
	assert.Equal(t, "5,000,000,000", output.Profile["plannedInvestmentAmount"])

	assert.True(t, mr.Exists("eligibility:profile:app-001"))
	assert.Equal(t, 15*time.Minute, mr.TTL("eligibility:profile:app-001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheHitSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr, redisClient := setupMiniredis(t)
	require.NoError(t, mr.Set("eligibility:profile:app-002",
		`{"applicantId":"app-002","profile":{"monthlyIncome":12345678901234},"email":"b@example.com","locale":"en"}`))

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-002"})

	require.NoError(t, err)
	assert.True(t, output.CacheHit)
	assert.Equal(t, "b@example.com", output.Email)
	assert.Equal(t, json.Number("12345678901234"), output.Profile["monthlyIncome"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SecondCallHitsCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, redisClient := setupMiniredis(t)

	mock.ExpectQuery(profileQueryPattern).
		WithArgs("app-001").
		WillReturnRows(profileRow())

	handler := createTestHandler(t, db, redisClient)

	first, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-001"})
	require.NoError(t, err)
	second, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-001"})
	require.NoError(t, err)

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.StoredProfile, second.StoredProfile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NullColumnsUseDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, redisClient := setupMiniredis(t)

	mock.ExpectQuery(profileQueryPattern).
		WithArgs("app-003").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow([]byte(`null`), nil, nil, nil, nil))

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-003"})

	require.NoError(t, err)
	assert.Equal(t, "en", output.Locale)
	assert.Empty(t, output.Email)
	assert.NotNil(t, output.Profile)
	assert.Empty(t, output.Profile)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		setup    func(mock sqlmock.Sqlmock)
		wantErr  error
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "missing applicant id",
			input:    &Input{ApplicantID: "  "},
			setup:    func(sqlmock.Sqlmock) {},
			wantErr:  ErrInvalidInput,
			wantCode: apperrors.ErrCodeInputParsingFailed,
		},
		{
			name:  "profile not found",
			input: &Input{ApplicantID: "ghost"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(profileQueryPattern).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
			},
			wantErr:  ErrProfileNotFound,
			wantCode: apperrors.ErrCodeProfileNotFound,
		},
		{
			name:  "database failure",
			input: &Input{ApplicantID: "app-004"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(profileQueryPattern).WithArgs("app-004").
					WillReturnError(errors.New("connection reset by peer"))
			},
			wantErr:  ErrProfileLoadFailed,
			wantCode: apperrors.ErrCodeProfileLoadFailed,
		},
		{
			name:  "corrupt profile data",
			input: &Input{ApplicantID: "app-005"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(profileQueryPattern).WithArgs("app-005").
					WillReturnRows(sqlmock.NewRows(profileColumns).AddRow([]byte(`{"monthlyIncome":`), "", "", "", "en"))
			},
			wantErr:  ErrProfileLoadFailed,
			wantCode: apperrors.ErrCodeProfileLoadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			_, redisClient := setupMiniredis(t)
			tt.setup(mock)

			handler := createTestHandler(t, db, redisClient)
			output, err := handler.Execute(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
			assert.Equal(t, tt.wantCode, toStandardError(err, tt.input.ApplicantID).Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_QueryTimeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, redisClient := setupMiniredis(t)

	mock.ExpectQuery(profileQueryPattern).
		WithArgs("app-006").
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(profileRow())

	handler := createTestHandler(t, db, redisClient)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = handler.Execute(ctx, &Input{ApplicantID: "app-006"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueryTimeout), err.Error())
	assert.Equal(t, apperrors.ErrCodeQueryTimeout, toStandardError(err, "app-006").Code)
}

func TestHandler_Execute_CacheFailuresAreNotFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	expected := StoredProfile{
		ApplicantID: "app-001",
		Profile: map[string]interface{}{
			"monthlyIncome":           json.Number("60000000"),
			"employmentStatus":        "permanent",
			"plannedInvestmentAmount": "5,000,000,000",
		},
		Email:    "ana@example.com",
		Phone:    "+6281234567890",
		FullName: "Ana Santos",
		Locale:   "id",
	}
	cached, err := json.Marshal(&expected)
	require.NoError(t, err)

	redisMock.ExpectGet("eligibility:profile:app-001").SetErr(errors.New("redis: connection pool timeout"))
	redisMock.ExpectSet("eligibility:profile:app-001", cached, 15*time.Minute).SetErr(errors.New("READONLY replica"))

	mock.ExpectQuery(profileQueryPattern).
		WithArgs("app-001").
		WillReturnRows(profileRow())

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-001"})

	require.NoError(t, err)
	assert.Equal(t, expected, output.StoredProfile)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_CorruptCacheEntryFallsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr, redisClient := setupMiniredis(t)
	require.NoError(t, mr.Set("eligibility:profile:app-001", "not json"))

	mock.ExpectQuery(profileQueryPattern).
		WithArgs("app-001").
		WillReturnRows(profileRow())

	handler := createTestHandler(t, db, redisClient)
	output, err := handler.Execute(context.Background(), &Input{ApplicantID: "app-001"})

	require.NoError(t, err)
	assert.False(t, output.CacheHit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.WorkerConfig{Timeout: 3000}, config.EligibilityConfig{ProfileCacheTTL: 60})
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)

	cfg = LoadConfig(config.WorkerConfig{}, config.EligibilityConfig{})
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
}
