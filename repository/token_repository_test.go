package repository

import (
	"database/sql"
	"go-project-api/logger"
	"go-project-api/model"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestTokenRepository_Create(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)
	now := time.Now()

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`)).
		WithArgs(1, "somehash", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now))
	dbMock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	token := &model.RefreshToken{UserID: 1, TokenHash: "somehash", ExpiresAt: now.Add(time.Hour)}
	assert.NoError(t, repo.Create(tx, token))
	assert.Equal(t, 3, token.ID)
	assert.NoError(t, tx.Commit())

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_GetByTokenHash(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`)).
			WithArgs("somehash").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
				AddRow(3, 1, "somehash", now.Add(time.Hour), now))

		token, err := repo.GetByTokenHash("somehash")
		assert.NoError(t, err)
		assert.Equal(t, 1, token.UserID)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("not found surfaces sql.ErrNoRows", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`)).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByTokenHash("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestTokenRepository_DeleteByUserIDTx(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	dbMock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)
	assert.NoError(t, repo.DeleteByUserIDTx(tx, 1))
	assert.NoError(t, tx.Commit())

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
