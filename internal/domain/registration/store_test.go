package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techconnect/internal/database"
	"techconnect/internal/pkg/seal"
)

func testBox() *seal.Box {
	var key [32]byte
	copy(key[:], "0123456789abcdef0123456789abcdef")
	return seal.New(key)
}

func newSQLiteStore(t *testing.T, codec *Codec) *SQLStore {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := NewSQLStore(db, codec)
	require.NoError(t, store.Migrate())
	return store
}

func TestCodec_SealedRoundTrip(t *testing.T) {
	codec := NewCodec(testBox())
	s := providerReady(t)

	blob, err := codec.Encode(s)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), strongPassword)
	assert.NotContains(t, string(blob), "aisha@example.com")

	got, err := codec.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, s.Draft.Identity, got.Draft.Identity)
	assert.Equal(t, s.Draft.ResumeFile, got.Draft.ResumeFile)
	assert.Equal(t, "Backend engineer", got.Draft.Provider().Bio)
	assert.Equal(t, DocPassport, got.Draft.KYCDocType)
}

func TestCodec_WrongKeyFails(t *testing.T) {
	blob, err := NewCodec(testBox()).Encode(providerReady(t))
	require.NoError(t, err)

	var other [32]byte
	_, err = NewCodec(seal.New(other)).Decode(blob)
	assert.ErrorIs(t, err, seal.ErrOpen)
}

func TestCodec_PlainDecodeFillsFieldErrors(t *testing.T) {
	got, err := NewCodec(nil).Decode([]byte(`{"id":"x","current_step":1,"phase":"editing"}`))
	require.NoError(t, err)
	assert.NotNil(t, got.FieldErrors)
}

// Both stores share one contract.
func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore(NewCodec(nil)) },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t, NewCodec(testBox())) },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("create load save delete", func(t *testing.T) {
				store := open(t)
				s := customerReady(t)
				require.NoError(t, store.Create(ctx, s))
				assert.ErrorIs(t, store.Create(ctx, s), ErrSessionExists)

				got, err := store.Load(ctx, s.ID)
				require.NoError(t, err)
				assert.Equal(t, "Acme", got.Draft.Customer().CompanyName)

				got.Draft.Customer().CompanyName = "Acme Sdn Bhd"
				require.NoError(t, store.Save(ctx, got))
				again, err := store.Load(ctx, s.ID)
				require.NoError(t, err)
				assert.Equal(t, "Acme Sdn Bhd", again.Draft.Customer().CompanyName)

				require.NoError(t, store.Delete(ctx, s.ID))
				_, err = store.Load(ctx, s.ID)
				assert.ErrorIs(t, err, ErrSessionNotFound)
			})

			t.Run("save inserts missing", func(t *testing.T) {
				store := open(t)
				s := NewSession("fresh", fixedNow, time.Hour)
				require.NoError(t, store.Save(ctx, s))
				_, err := store.Load(ctx, "fresh")
				assert.NoError(t, err)
			})

			t.Run("delete expired", func(t *testing.T) {
				store := open(t)
				require.NoError(t, store.Create(ctx, NewSession("old", fixedNow.Add(-3*time.Hour), time.Hour)))
				require.NoError(t, store.Create(ctx, NewSession("new", fixedNow, time.Hour)))

				n, err := store.DeleteExpired(ctx, fixedNow)
				require.NoError(t, err)
				assert.EqualValues(t, 1, n)

				_, err = store.Load(ctx, "old")
				assert.ErrorIs(t, err, ErrSessionNotFound)
				_, err = store.Load(ctx, "new")
				assert.NoError(t, err)
			})
		})
	}
}

func TestSQLStore_KeepsCiphertextOnly(t *testing.T) {
	store := newSQLiteStore(t, NewCodec(testBox()))
	s := providerReady(t)
	require.NoError(t, store.Create(context.Background(), s))

	var row draftRow
	require.NoError(t, store.DB().Where("id = ?", s.ID).First(&row).Error)
	assert.Equal(t, "provider", row.Role)
	assert.NotContains(t, string(row.Blob), strongPassword)
}
