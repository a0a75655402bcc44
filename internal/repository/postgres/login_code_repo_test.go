package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestLoginCodeRepository_Consume(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		result  func(mock sqlmock.Sqlmock)
		want    bool
		wantErr bool
	}{
		{
			name: "matching code",
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM login_codes\s+WHERE id = \(`).
					WithArgs("ada@example.com", "hash").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: true,
		},
		{
			name: "no match",
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM login_codes`).
					WithArgs("ada@example.com", "hash").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: false,
		},
		{
			name: "db error",
			result: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM login_codes`).WillReturnError(errors.New("conn reset"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.result(mock)

			got, err := NewLoginCodeRepository(db).Consume(ctx, "ada@example.com", "hash")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLoginCodeRepository_CreateAndDeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO login_codes`).
		WithArgs("ada@example.com", "hash", now.Add(10*time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM login_codes WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NewLoginCodeRepository(db)
	require.NoError(t, repo.Create(ctx, "ada@example.com", "hash", now.Add(10*time.Minute)))
	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
