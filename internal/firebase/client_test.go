package firebase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ponytojas/go-mqtt-firebase/config"
	"github.com/ponytojas/go-mqtt-firebase/internal/models"
)

func Test_NewClientMissingCredentials(t *testing.T) {
	cfg := config.GetDefaultConfig().Firebase
	cfg.CredentialsFile = filepath.Join(t.TempDir(), "serviceAccountKey.json")

	c, err := NewClient(context.Background(), cfg, zap.NewNop())
	assert.Nil(t, c)
	assert.ErrorContains(t, err, "cannot read credentials file")
}

func Test_NewClientInvalidConfig(t *testing.T) {
	cfg := config.GetDefaultConfig().Firebase
	cfg.DatabaseURL = ""

	_, err := NewClient(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidFirebaseConfig)
}

// fakeDatabase serves the realtime database REST API for a single record
type fakeDatabase struct {
	method string
	path   string
	body   map[string]interface{}
	record string
}

func (f *fakeDatabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.method, f.path = r.Method, r.URL.Path
	raw, _ := io.ReadAll(r.Body)
	if len(raw) > 0 {
		f.body = map[string]interface{}{}
		_ = json.Unmarshal(raw, &f.body)
	}
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, f.record)
		return
	}
	_, _ = w.Write(raw)
}

// newEmulatedClient points the SDK at an httptest server through the emulator host variable
func newEmulatedClient(t *testing.T, fake *fakeDatabase) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	t.Setenv("FIREBASE_DATABASE_EMULATOR_HOST", "localhost:"+u.Port()+"?ns=sensorpush")

	key := filepath.Join(t.TempDir(), "serviceAccountKey.json")
	require.NoError(t, os.WriteFile(key, []byte(`{
		"type": "authorized_user",
		"client_id": "sensorpush",
		"client_secret": "secret",
		"refresh_token": "token"
	}`), 0o600))

	cfg := config.GetDefaultConfig().Firebase
	cfg.CredentialsFile = key
	c, err := NewClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	return c
}

func Test_ClientUpdate(t *testing.T) {
	fake := &fakeDatabase{}
	c := newEmulatedClient(t, fake)

	fields := map[string]interface{}{
		"temperature":  25.5,
		"humidity":     65.2,
		"noise":        45.0,
		"light":        15.0,
		"last_updated": "2024-05-17T08:30:00.000000",
	}
	require.NoError(t, c.Update(context.Background(), "sensors/latest", fields))
	assert.Equal(t, http.MethodPatch, fake.method)
	assert.Equal(t, "/sensors/latest.json", fake.path)
	assert.Equal(t, fields, fake.body)
}

func Test_ClientGet(t *testing.T) {
	fake := &fakeDatabase{record: `{"temperature":25.5,"humidity":65.2,"noise":45,"light":15,"last_updated":"2024-05-17T08:30:00.000000"}`}
	c := newEmulatedClient(t, fake)

	var rec models.Record
	require.NoError(t, c.Get(context.Background(), "sensors/latest", &rec))
	assert.Equal(t, http.MethodGet, fake.method)
	assert.Equal(t, "/sensors/latest.json", fake.path)
	assert.Equal(t, models.Record{Temperature: 25.5, Humidity: 65.2, Noise: 45, Light: 15, LastUpdated: "2024-05-17T08:30:00.000000"}, rec)
}
