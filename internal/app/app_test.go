package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/grimoire-backend/internal/config"
)

const fireballHTML = `<div class="mw-parser-output">
<p><i>Evocation (Wizard Spell)</i></p>
<p>3rd-level wizard spell from the Player's Handbook (AD&amp;D 2nd Edition).</p>
<p>Range: 10 yds. + 10 yds./level</p>
<p>Components: V, S, M</p>
<p>Duration: Instantaneous</p>
<p>Casting Time: 3</p>
<p>Saving Throw: 1/2</p>
<p>A fireball is an explosive burst of flame.</p>
</div>`

const fireballPayload = `{"name":"Fireball","class":"wizard","level":3,"school":"Evocation",` +
	`"range":"10 yds. + 10 yds./level","duration":"Instantaneous","casting_time":"3",` +
	`"components":"V, S, M","area_of_effect":"20-ft. radius","saving_throw":"1/2",` +
	`"description":"A fireball is an explosive burst of flame."}`

// newWikiServer serves a single Fireball page; every other title is missing.
func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var resp map[string]any
		switch {
		case q.Get("action") == "parse" && q.Get("page") == "Fireball":
			resp = map[string]any{"parse": map[string]any{"title": "Fireball", "text": fireballHTML}}
		case q.Get("action") == "parse":
			resp = map[string]any{"error": map[string]any{"code": "missingtitle", "info": "The page you specified doesn't exist."}}
		default:
			resp = map[string]any{"query": map[string]any{"search": []any{}}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newExtractionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "test-model",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": fireballPayload}},
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 10},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestInfra(t *testing.T) *Infra {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	testhelper.Truncate(t, pool, "spell_references", "spells", "spell_reference_missing")

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Auth: config.AuthConfig{AdminUser: "ops", AdminPasswordHash: string(hash)},
		Wiki: config.WikiConfig{
			BaseURL:     newWikiServer(t).URL,
			APIPath:     "/api.php",
			Timeout:     5 * time.Second,
			SearchLimit: 3,
			FanOut:      2,
		},
		Extraction: config.ExtractionConfig{
			APIKey:    "test-key",
			BaseURL:   newExtractionServer(t).URL,
			Model:     "test-model",
			MaxTokens: 512,
			MaxInput:  10000,
		},
		Validator: config.ValidatorConfig{
			MinStructuralMarkers: 3,
			StructuralMarkersRaw: "range,duration,casting time,components,saving throw",
			EditionMarkersRaw:    "2nd edition,ad&d,player's handbook",
		},
		Hydrate: config.HydrateConfig{DefaultLimit: 1},
	}
	require.NoError(t, cfg.Validate())

	return &Infra{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Pool:   pool,
		txm:    postgres.NewTxManager(pool),
	}
}

func writeReferenceCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wizard.csv")
	csv := "Class,Group,Name,Level,Source\n" +
		"Wizard,Evocation,Fireball,3,PHB\n" +
		"Wizard,Evocation,Magic Missile,1,PHB\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	return path
}

type hydrateBody struct {
	Processed []struct {
		NormalizedName string `json:"normalizedName"`
		Status         string `json:"status"`
		Reason         string `json:"reason"`
		SpellID        int64  `json:"spellId"`
	} `json:"processed"`
	Missing []struct {
		NormalizedName string `json:"normalizedName"`
		AttemptCount   int    `json:"attemptCount"`
	} `json:"missing"`
}

func call(t *testing.T, h http.Handler, method, body string) (int, hydrateBody) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/spell-reference-hydrate", bytes.NewBufferString(body))
	req.SetBasicAuth("ops", "s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out hydrateBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	}
	return rec.Code, out
}

func TestHydrationEndpoint_EndToEnd(t *testing.T) {
	infra := newTestInfra(t)
	ctx := t.Context()

	synced, err := infra.Syncer().Sync(ctx, writeReferenceCSV(t), false)
	require.NoError(t, err)
	require.Equal(t, 2, synced.Created)

	handler, stop, err := infra.Handler()
	require.NoError(t, err)
	defer stop()

	// First batch: Fireball resolves, Magic Missile has no page.
	code, res := call(t, handler, http.MethodPost, `{"limit":2}`)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, res.Processed, 2)

	byName := map[string]string{}
	for _, p := range res.Processed {
		byName[p.NormalizedName] = p.Status
		if p.Status == "saved" {
			assert.NotZero(t, p.SpellID)
		}
	}
	assert.Equal(t, map[string]string{"fireball": "saved", "magic missile": "not-found"}, byName)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, "magic missile", res.Missing[0].NormalizedName)

	// Unsaved rows exclude the ledger, so a plain run finds nothing left.
	code, res = call(t, handler, http.MethodPost, `{"limit":2}`)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, res.Processed)

	// Retrying the ledger bumps the attempt count.
	code, res = call(t, handler, http.MethodPost, `{"retryOnlyMissing":true}`)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, res.Processed, 1)
	assert.Equal(t, "not-found", res.Processed[0].Status)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, 2, res.Missing[0].AttemptCount)

	// Saved spells are skipped unless forced.
	code, res = call(t, handler, http.MethodPost, `{"name":"Fireball"}`)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, res.Processed, 1)
	assert.Equal(t, "skipped", res.Processed[0].Status)

	code, res = call(t, handler, http.MethodGet, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, res.Missing, 1)

	code, _ = call(t, handler, http.MethodPost, `{"limit":2,"bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandler_RequiresAdminAuth(t *testing.T) {
	infra := newTestInfra(t)
	infra.Config.Auth = config.AuthConfig{}

	_, _, err := infra.Handler()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "auth"))
}

func TestHydrator_RequiresExtractionKey(t *testing.T) {
	infra := &Infra{Config: &config.Config{}}

	_, err := infra.Hydrator()
	require.Error(t, err)
}
