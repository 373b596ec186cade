package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"camstation/internal/logger"
	"camstation/internal/model"
	"camstation/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *CaptureRepository {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "data", "captures.db"))
	require.NoError(t, err)
	repo := NewCaptureRepository(db, logger.NewNop())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func record(i int) model.CaptureRecord {
	return model.CaptureRecord{
		Date:          "2024-05-01",
		Time:          fmt.Sprintf("10:00:%02d", i),
		Gender:        model.Genders[i%2],
		Age:           model.AgeBrackets[i%len(model.AgeBrackets)],
		ImageFilename: fmt.Sprintf("captured_0_202405011000%02d.png", i),
	}
}

func TestCaptureRepository_EmptyDatabase(t *testing.T) {
	repo := setupTestRepo(t)

	records, err := repo.ReadAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCaptureRepository_AppendPreservesOrder(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// Appended out of time order on purpose: order follows insertion.
	want := []model.CaptureRecord{record(5), record(1), record(3)}
	for _, rec := range want {
		require.NoError(t, repo.Append(ctx, rec))
	}

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, records)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCaptureRepository_AppendDuplicate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, record(1)))

	err := repo.Append(ctx, record(1))

	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCaptureRepository_AppendInvalid(t *testing.T) {
	repo := setupTestRepo(t)
	rec := record(1)
	rec.Gender = "Unknown"

	assert.Error(t, repo.Append(context.Background(), rec))
}

func TestCaptureRepository_AppendBatch(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	batch := []model.CaptureRecord{record(0), record(1), record(2)}
	require.NoError(t, repo.AppendBatch(ctx, batch))

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, batch, records)
}

func TestCaptureRepository_AppendBatchRollsBack(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	err := repo.AppendBatch(ctx, []model.CaptureRecord{record(0), record(1), record(0)})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCaptureRepository_ReadAllNormalisesLegacyRows(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.Conn().Exec(`
		INSERT INTO captures (date, time, gender, age, filename) VALUES
		('2024-05-01', '10:00:00', 'male', '(41-45)', 'legacy.png'),
		('2024-05-01', '10:00:10', 'Robot', '21-25', 'broken.png')
	`)
	require.NoError(t, err)

	records, err := repo.ReadAll(ctx)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.Male, records[0].Gender)
	assert.Equal(t, model.AgeBracket("41-45"), records[0].Age)
}

func TestCaptureRepository_Remove(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, record(i)))
	}

	require.NoError(t, repo.Remove(ctx, record(1).ImageFilename))

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CaptureRecord{record(0), record(2)}, records)

	assert.ErrorIs(t, repo.Remove(ctx, "missing.png"), repository.ErrNotFound)
}

func TestCaptureRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captures.db")
	ctx := context.Background()

	db, err := New(path)
	require.NoError(t, err)
	repo := NewCaptureRepository(db, logger.NewNop())
	require.NoError(t, repo.Append(ctx, record(7)))
	require.NoError(t, repo.Close())

	db, err = New(path)
	require.NoError(t, err)
	repo = NewCaptureRepository(db, logger.NewNop())
	defer repo.Close()

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CaptureRecord{record(7)}, records)
}
