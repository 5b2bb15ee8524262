package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"acadswap/internal/domain"
)

func TestReputationLedger_Apply(t *testing.T) {
	ctx := context.Background()
	change := domain.ReputationChange{UserID: "u1", MeetupID: "m-1", Amount: 5, Reason: domain.ReasonCompletedAsSeller}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reputation_history`).
					WithArgs("u1", "m-1", 5, domain.ReasonCompletedAsSeller).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE users SET reputation_score = GREATEST\(0, reputation_score \+ \$1\)`).
					WithArgs(5, "u1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "already recorded",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reputation_history`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicate,
		},
		{
			name: "unknown user",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reputation_history`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "score row missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reputation_history`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "rows affected unavailable",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reputation_history`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewErrorResult(sql.ErrConnDone))
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reputation_history`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewReputationLedger(db).Apply(ctx, change)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.True(t, errors.Is(err, tt.errIs), "got %v", err)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
