package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/tech_digest/app/tech_digest/pkg/config"
	dm "github.com/iWorld-y/tech_digest/app/tech_digest/pkg/model"
)

func TestParseResponse(t *testing.T) {
	got := ParseResponse("SUMMARY: x\nTOPICS: a, b\n- p1\n- p2\nRELEVANCE: 15")
	if got.Summary != "x" {
		t.Errorf("Summary = %q, want x", got.Summary)
	}
	if strings.Join(got.Topics, "|") != "a|b" {
		t.Errorf("Topics = %q, want [a b]", got.Topics)
	}
	if strings.Join(got.KeyPoints, "|") != "p1|p2" {
		t.Errorf("KeyPoints = %q, want [p1 p2]", got.KeyPoints)
	}
	if got.RelevanceScore != 10 {
		t.Errorf("RelevanceScore = %d, want 10 (clamped)", got.RelevanceScore)
	}
}

func TestParseResponse_Relevance(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"malformed", "SUMMARY: s\nRELEVANCE: banana", 5},
		{"missing", "SUMMARY: s\nTOPICS: a", 5},
		{"zero clamps up", "RELEVANCE: 0", 1},
		{"plain", "RELEVANCE: 7", 7},
		{"out of ten", "RELEVANCE: 8/10", 8},
		{"bracketed", "RELEVANCE: [9]", 9},
		{"overflow", "RELEVANCE: 99999999999999999999999", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseResponse(tt.reply).RelevanceScore; got != tt.want {
				t.Errorf("RelevanceScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseResponse_PermissiveDefaults(t *testing.T) {
	got := ParseResponse("Sure! Here is my take.\nKEY_POINTS:\n  • bullet one\n-\n- | piped | point\nsomething else")
	if got.Summary != "" {
		t.Errorf("Summary = %q, want empty", got.Summary)
	}
	if len(got.Topics) != 0 {
		t.Errorf("Topics = %q, want empty", got.Topics)
	}
	if len(got.KeyPoints) != 2 || got.KeyPoints[0] != "bullet one" || got.KeyPoints[1] != "/ piped / point" {
		t.Errorf("KeyPoints = %q", got.KeyPoints)
	}
	if got.RelevanceScore != DefaultRelevance {
		t.Errorf("RelevanceScore = %d", got.RelevanceScore)
	}

	empty := ParseResponse("")
	if empty.Summary != "" || len(empty.Topics) != 0 || len(empty.KeyPoints) != 0 || empty.RelevanceScore != 5 {
		t.Errorf("ParseResponse(\"\") = %+v", empty)
	}
}

func TestBuildPrompt(t *testing.T) {
	body := strings.Repeat("a", 4000) + "TAIL"
	p := BuildPrompt(dm.Article{Title: "Chips", Snippet: "short", BodyText: body}, 4000)
	if !strings.Contains(p, "Article Title: Chips") {
		t.Errorf("prompt missing title")
	}
	if strings.Contains(p, "TAIL") || !strings.Contains(p, strings.Repeat("a", 4000)+"...") {
		t.Errorf("prompt body not truncated to 4000 characters")
	}
	if strings.Contains(p, "Article Snippet:") {
		t.Errorf("prompt uses snippet although body is present")
	}

	for _, sentinel := range []string{"", dm.BodyUnavailable, dm.BodyFetchFailed} {
		p := BuildPrompt(dm.Article{Title: "Chips", Snippet: "short", BodyText: sentinel}, 4000)
		if !strings.Contains(p, "Article Snippet: short") || strings.Contains(p, "Article Text:") {
			t.Errorf("BuildPrompt(body=%q) should fall back to snippet", sentinel)
		}
	}
}

type fakeChatModel struct {
	reply    string
	err      error
	messages []*schema.Message
	options  *model.Options
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.messages = input
	f.options = model.GetCommonOptions(nil, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestClient_Analyze(t *testing.T) {
	cm := &fakeChatModel{reply: "SUMMARY: Big news.\nTOPICS: AI\n- one\nRELEVANCE: 8"}
	c := New(cm)

	got, err := c.Analyze(context.Background(), dm.Article{Title: "T", Snippet: "S"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Summary != "Big news." || got.RelevanceScore != 8 {
		t.Errorf("Analyze() = %+v", got)
	}
	if len(cm.messages) != 2 || cm.messages[0].Role != schema.System || cm.messages[1].Role != schema.User {
		t.Fatalf("messages = %+v, want system + user", cm.messages)
	}
	if cm.options.Temperature == nil || *cm.options.Temperature != 0.7 {
		t.Errorf("temperature option = %v, want 0.7", cm.options.Temperature)
	}
	if cm.options.MaxTokens == nil || *cm.options.MaxTokens != 1000 {
		t.Errorf("max tokens option = %v, want 1000", cm.options.MaxTokens)
	}
}

func TestClient_AnalyzeTransportError(t *testing.T) {
	c := New(&fakeChatModel{err: errors.New("connection refused")})
	_, err := c.Analyze(context.Background(), dm.Article{Title: "T"})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Analyze() error = %v, want ErrTransport", err)
	}
}

// chatCompletionServer 模拟 OpenAI 兼容的 /chat/completions 接口
func chatCompletionServer(t *testing.T, status int, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"model not loaded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1760600000,
			"model":   "local-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
}

func TestNewFromConfig_WireFormat(t *testing.T) {
	var body map[string]any
	srv := chatCompletionServer(t, http.StatusOK, "SUMMARY: ok\nRELEVANCE: 3", &body)
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.BaseURL = srv.URL + "/v1"
	c, err := NewFromConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	got, err := c.Analyze(context.Background(), dm.Article{Title: "T", Snippet: "S"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Summary != "ok" || got.RelevanceScore != 3 {
		t.Errorf("Analyze() = %+v", got)
	}

	if body["model"] != "local-model" {
		t.Errorf("model = %v", body["model"])
	}
	if temp, _ := body["temperature"].(float64); math.Abs(temp-0.7) > 1e-6 {
		t.Errorf("temperature = %v, want 0.7", body["temperature"])
	}
	if mt, _ := body["max_tokens"].(float64); mt != 1000 {
		t.Errorf("max_tokens = %v, want 1000", body["max_tokens"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want 2", body["messages"])
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("messages[0].role = %v", first["role"])
	}
}

func TestNewFromConfig_Non200(t *testing.T) {
	srv := chatCompletionServer(t, http.StatusInternalServerError, "", nil)
	defer srv.Close()

	cfg := config.Default().LLM
	cfg.BaseURL = srv.URL + "/v1"
	c, err := NewFromConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if _, err := c.Analyze(context.Background(), dm.Article{Title: "T"}); !errors.Is(err, ErrTransport) {
		t.Fatalf("Analyze() error = %v, want ErrTransport", err)
	}
}
