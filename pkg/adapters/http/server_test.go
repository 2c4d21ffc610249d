package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	transport "github.com/aretw0/dialogs/pkg/adapters/http"
	"github.com/aretw0/dialogs/pkg/adapters/memory"
	"github.com/aretw0/dialogs/pkg/bot"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/prompt"
	"github.com/aretw0/dialogs/pkg/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T, opts ...transport.Option) *httptest.Server {
	t.Helper()
	root := dialog.NewWaterfall("root", []dialog.WaterfallStep{
		func(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
			return step.Prompt(ctx, "confirm", prompt.Text("Continue?", ""))
		},
		func(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
			return step.EndDialog(ctx, step.Result)
		},
	})
	set := dialog.NewSet(root, prompt.NewConfirmPrompt("confirm", nil, ""))
	sessions := session.NewManager(memory.NewStore())
	b, err := bot.New(set, "root", sessions)
	require.NoError(t, err)

	opts = append([]transport.Option{transport.WithMetricsHandler(promhttp.Handler())}, opts...)
	srv := httptest.NewServer(transport.NewHandler(b, sessions, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, a domain.Activity) (*http.Response, transport.MessagesResponse) {
	t.Helper()
	body, err := json.Marshal(a)
	require.NoError(t, err)
	resp, err := srv.Client().Post(srv.URL+"/api/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out transport.MessagesResponse
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusInternalServerError {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestServer_ConversationLifecycle(t *testing.T) {
	srv := newServer(t)

	resp, out := post(t, srv, domain.Activity{Type: domain.ActivityMessage, Text: "hi", Locale: "pt-BR"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.ConversationID)
	require.Len(t, out.Activities, 1)
	assert.Equal(t, "Continue? (1) Sim ou (2) Não", out.Activities[0].Text)
	assert.Equal(t, out.ConversationID, out.Activities[0].Conversation.ID)

	listResp, err := srv.Client().Get(srv.URL + "/api/conversations")
	require.NoError(t, err)
	var list transport.ConversationsResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	listResp.Body.Close()
	assert.Equal(t, []string{out.ConversationID}, list.Conversations)

	getResp, err := srv.Client().Get(srv.URL + "/api/conversations/" + out.ConversationID)
	require.NoError(t, err)
	var state domain.ConversationState
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&state))
	getResp.Body.Close()
	assert.Equal(t, []string{"root", "confirm"}, state.StackIDs())

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/conversations/"+out.ConversationID, nil)
	require.NoError(t, err)
	delResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	getResp, err = srv.Client().Get(srv.URL + "/api/conversations/" + out.ConversationID)
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestServer_ContinuesConversation(t *testing.T) {
	srv := newServer(t)

	_, first := post(t, srv, domain.Activity{Type: domain.ActivityMessage, Text: "hi"})
	resp, second := post(t, srv, domain.Activity{
		Type:         domain.ActivityMessage,
		Text:         "2",
		Conversation: domain.ConversationRef{ID: first.ConversationID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, second.Activities)
}

func TestServer_RejectsBadInput(t *testing.T) {
	srv := newServer(t)

	resp, err := srv.Client().Post(srv.URL+"/api/messages", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, domain.Activity{Text: "no type"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, domain.Activity{Type: domain.ActivityMessage, Text: strings.Repeat("a", 5000)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_SanitizesEventFields(t *testing.T) {
	srv := newServer(t, transport.WithMaxInputSize(64))
	long := strings.Repeat("x", 65)

	resp, _ := post(t, srv, domain.Activity{Type: domain.ActivityEvent, Name: long})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, domain.Activity{
		Type:  domain.ActivityEvent,
		Name:  "submit",
		Value: map[string]any{"form": []any{"ok", long}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, domain.Activity{Type: domain.ActivityMessage, Text: long})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, domain.Activity{Type: domain.ActivityMessage, Text: strings.Repeat("y", 64)})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/api/conversations/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
