// internal/syncer/mock_test.go
package syncer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"go_5_vocab_drill/internal/model"
)

// mockRemote は remote.RemoteDataSource のモックです。
type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Name() string {
	return "mock"
}

func (m *mockRemote) FetchWords(ctx context.Context) ([]model.Word, error) {
	args := m.Called(ctx)
	words, _ := args.Get(0).([]model.Word)
	return words, args.Error(1)
}

func (m *mockRemote) FetchPhonetics(ctx context.Context) (map[int]string, error) {
	args := m.Called(ctx)
	phonetics, _ := args.Get(0).(map[int]string)
	return phonetics, args.Error(1)
}

func (m *mockRemote) FetchUserStatus(ctx context.Context) (map[int]model.Status, error) {
	args := m.Called(ctx)
	statuses, _ := args.Get(0).(map[int]model.Status)
	return statuses, args.Error(1)
}

func (m *mockRemote) FetchIrregularWords(ctx context.Context) ([]model.IrregularWord, error) {
	args := m.Called(ctx)
	words, _ := args.Get(0).([]model.IrregularWord)
	return words, args.Error(1)
}

func (m *mockRemote) PatchStatus(ctx context.Context, wordID int, patch model.StatusPatch) error {
	args := m.Called(ctx, wordID, patch)
	return args.Error(0)
}

func (m *mockRemote) BatchUpdate(ctx context.Context, wordUpdates []model.WordUpdate, statusUpdates []model.StatusUpdate) error {
	args := m.Called(ctx, wordUpdates, statusUpdates)
	return args.Error(0)
}

func (m *mockRemote) SaveWords(ctx context.Context, words []model.Word) error {
	args := m.Called(ctx, words)
	return args.Error(0)
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWords() []model.Word {
	return []model.Word{
		{
			ID:   1,
			Word: "apple",
			Translations: []model.Translation{
				{Type: "n.", Translation: "苹果"},
			},
			Status: model.DefaultStatus(),
		},
		{
			ID:   2,
			Word: "begin",
			Translations: []model.Translation{
				{Type: "v.", Translation: "开始"},
			},
			Status: model.DefaultStatus(),
		},
		{
			ID:     3,
			Word:   "careful",
			Status: model.DefaultStatus(),
		},
	}
}
