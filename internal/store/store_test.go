package store_test

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisperlink/internal/domain"
	"whisperlink/internal/store"
)

// backends returns a fresh FileKV and SQLiteKV rooted in a temp dir.
func backends(t *testing.T) map[string]domain.KeyValueStore {
	t.Helper()
	home := t.TempDir()

	fkv, err := store.NewFileKV(filepath.Join(home, "files"))
	require.NoError(t, err)
	skv, err := store.NewSQLiteKV(filepath.Join(home, store.DefaultSQLiteFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = skv.Close() })

	return map[string]domain.KeyValueStore{"file": fkv, "sqlite": skv}
}

func TestKV_SetGetDelete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set("k1", []byte("v1")))
			require.NoError(t, kv.Set("k1", []byte("v2")))

			got, ok, err := kv.Get("k1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "v2", string(got))

			require.NoError(t, kv.Delete("k1"))
			require.NoError(t, kv.Delete("k1"), "delete twice")

			_, ok, err = kv.Get("k1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKV_RejectsBadKeys(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", ".hidden", "Upper", "a/b"} {
				assert.ErrorIs(t, kv.Set(key, []byte("x")), store.ErrInvalidKey, key)
			}
		})
	}
}

func TestSQLiteKV_UseAfterClose(t *testing.T) {
	kv, err := store.NewSQLiteKV(filepath.Join(t.TempDir(), store.DefaultSQLiteFile))
	require.NoError(t, err)
	require.NoError(t, kv.Set("k1", []byte("v1")))
	require.NoError(t, kv.Close())
	require.NoError(t, kv.Close(), "close twice")

	_, _, err = kv.Get("k1")
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, kv.Set("k1", []byte("v2")), store.ErrClosed)
	assert.ErrorIs(t, kv.Delete("k1"), store.ErrClosed)
}

func TestIdentity_SaveLoad_OK(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ids := store.NewIdentityStore(kv)

			_, ok, err := ids.LoadIdentity()
			require.NoError(t, err)
			assert.False(t, ok)

			id := domain.Identity{
				ID:          "6f1c1a8e-2a8b-4f43-9d1e-0c3a3b1b2f11",
				Algorithm:   domain.AlgorithmX25519,
				PublicKey:   "AQIDBAUGBwgJCgsMDQ4PEBESExQVFhcYGRobHB0eHyA=",
				Fingerprint: "B01198F80D75",
				CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			}
			require.NoError(t, ids.SaveIdentity(id))

			got, ok, err := ids.LoadIdentity()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, id.PublicKey, got.PublicKey)
			assert.Equal(t, id.Fingerprint, got.Fingerprint)
			assert.True(t, id.CreatedAt.Equal(got.CreatedAt))

			require.NoError(t, ids.DeleteIdentity())
			_, ok, err = ids.LoadIdentity()
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func fastScrypt() store.KDFParams {
	return store.KDFParams{Name: store.KDFScrypt, N: 1 << 10, R: 8, P: 1}
}

func fastArgon() store.KDFParams {
	return store.KDFParams{Name: store.KDFArgon2id, Time: 1, Memory: 1024, Threads: 1}
}

func TestSecret_SaveLoad_OK(t *testing.T) {
	secret := domain.SecretKey{
		IdentityID: "6f1c1a8e-2a8b-4f43-9d1e-0c3a3b1b2f11",
		Algorithm:  domain.AlgorithmX25519,
		PrivateKey: "AgICAgICAgICAgICAgICAgICAgICAgICAgICAgICAgI=",
	}
	for name, kv := range backends(t) {
		for _, params := range []store.KDFParams{fastScrypt(), fastArgon()} {
			t.Run(name+"/"+string(params.Name), func(t *testing.T) {
				secrets := store.NewSecretStore(kv, params)
				require.NoError(t, secrets.SaveSecret("correct horse", secret))

				got, err := secrets.LoadSecret("correct horse")
				require.NoError(t, err)
				assert.Equal(t, secret, got)
			})
		}
	}
}

func TestSecret_WrongPassphrase_Fails(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			secrets := store.NewSecretStore(kv, fastScrypt())
			require.NoError(t, secrets.SaveSecret("correct", domain.SecretKey{PrivateKey: "AQ=="}))

			_, err := secrets.LoadSecret("wrong")
			assert.ErrorIs(t, err, store.ErrWrongPassphrase)
		})
	}
}

func TestSecret_Missing(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.NewSecretStore(kv, fastScrypt()).LoadSecret("any")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestSecret_NotStoredInPlaintext(t *testing.T) {
	kv, err := store.NewFileKV(t.TempDir())
	require.NoError(t, err)

	priv := domain.PrivateKey("c2VjcmV0LWtleS1tYXRlcmlhbA==")
	require.NoError(t, store.NewSecretStore(kv, fastScrypt()).SaveSecret("pass", domain.SecretKey{PrivateKey: priv}))

	raw, ok, err := kv.Get(store.SecretKeyName)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(raw), string(priv))
}

// rewriteKDF edits the tunables recorded in the sealed blob.
func rewriteKDF(t *testing.T, kv domain.KeyValueStore, edit func(kdf map[string]any)) {
	t.Helper()
	raw, ok, err := kv.Get(store.SecretKeyName)
	require.NoError(t, err)
	require.True(t, ok)

	var blob map[string]any
	require.NoError(t, json.Unmarshal(raw, &blob))
	kdf, ok := blob["kdf"].(map[string]any)
	require.True(t, ok)
	edit(kdf)

	raw, err = json.Marshal(blob)
	require.NoError(t, err)
	require.NoError(t, kv.Set(store.SecretKeyName, raw))
}

func TestSecret_RejectsOversizedKDFParams(t *testing.T) {
	cases := map[string]struct {
		params store.KDFParams
		edit   func(map[string]any)
	}{
		"scrypt N":      {fastScrypt(), func(k map[string]any) { k["n"] = 1 << 30 }},
		"scrypt N odd":  {fastScrypt(), func(k map[string]any) { k["n"] = 1000 }},
		"scrypt r":      {fastScrypt(), func(k map[string]any) { k["r"] = 1 << 20 }},
		"argon2 memory": {fastArgon(), func(k map[string]any) { k["memory"] = uint32(0xffffffff) }},
		"argon2 time":   {fastArgon(), func(k map[string]any) { k["time"] = 1 << 20 }},
		"argon2 zero":   {fastArgon(), func(k map[string]any) { delete(k, "threads") }},
		"unknown kdf":   {fastScrypt(), func(k map[string]any) { k["name"] = "md5" }},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			kv, err := store.NewFileKV(t.TempDir())
			require.NoError(t, err)
			secrets := store.NewSecretStore(kv, tc.params)
			require.NoError(t, secrets.SaveSecret("pass", domain.SecretKey{PrivateKey: "AQ=="}))

			rewriteKDF(t, kv, tc.edit)

			_, err = secrets.LoadSecret("pass")
			assert.ErrorIs(t, err, store.ErrWrongPassphrase)
		})
	}
}

func TestSecret_SealRejectsBadParams(t *testing.T) {
	kv, err := store.NewFileKV(t.TempDir())
	require.NoError(t, err)
	bad := store.KDFParams{Name: store.KDFScrypt, N: 1 << 24, R: 8, P: 1}
	assert.Error(t, store.NewSecretStore(kv, bad).SaveSecret("pass", domain.SecretKey{PrivateKey: "AQ=="}))

	_, ok, err := kv.Get(store.SecretKeyName)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultKDFParams(t *testing.T) {
	for _, name := range []store.KDF{"", store.KDFScrypt, store.KDFArgon2id} {
		_, err := store.DefaultKDFParams(name)
		assert.NoError(t, err, name)
	}
	_, err := store.DefaultKDFParams("bcrypt")
	assert.Error(t, err)
}
