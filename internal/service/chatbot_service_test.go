package service

import (
	"context"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatbotFixture(t *testing.T, gateway *fakeGateway, cfg config.ChatConfig) (*ChatbotService, *repository.ConversationRepository, *clock) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewConversationRepository(db)
	svc := NewChatbotService(repo, gateway, newTestPrompts(t), cfg)
	clk := &clock{now: time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)}
	svc.now = clk.Now
	return svc, repo, clk
}

func TestChatRequiresPrompt(t *testing.T) {
	gateway := &fakeGateway{reply: "hola"}
	svc, _, _ := newChatbotFixture(t, gateway, config.ChatConfig{})

	_, err := svc.Chat(context.Background(), "   ", "u1")
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))
	assert.Zero(t, gateway.callCount())
}

func TestChatBuildsContextOldestFirst(t *testing.T) {
	gateway := &fakeGateway{}
	svc, _, clk := newChatbotFixture(t, gateway, config.ChatConfig{ContextSize: 2})
	ctx := context.Background()
	t0 := clk.Now()

	for i, prompt := range []string{"uno", "dos", "tres"} {
		clk.Set(t0.Add(time.Duration(i) * time.Minute))
		gateway.reply = "re " + prompt
		_, err := svc.Chat(ctx, prompt, "u1")
		require.NoError(t, err)
	}

	// 其他用户的记录不进入上下文
	_, err := svc.Chat(ctx, "otro", "u2")
	require.NoError(t, err)

	clk.Set(t0.Add(10 * time.Minute))
	gateway.reply = "final"
	reply, err := svc.Chat(ctx, "cuatro", "u1")
	require.NoError(t, err)
	assert.Equal(t, "final", reply)

	call := gateway.lastCall()
	require.Len(t, call, 6)
	assert.Equal(t, "system", call[0].Role)
	assert.Equal(t, "dos", call[1].Content)
	assert.Equal(t, "re dos", call[2].Content)
	assert.Equal(t, "tres", call[3].Content)
	assert.Equal(t, "re tres", call[4].Content)
	assert.Equal(t, "cuatro", call[5].Content)
}

func TestChatWithoutUserIsAnonymous(t *testing.T) {
	svc, repo, _ := newChatbotFixture(t, &fakeGateway{reply: "hola"}, config.ChatConfig{})
	ctx := context.Background()

	_, err := svc.Chat(ctx, "hi", "")
	require.NoError(t, err)

	entries, err := repo.Recent(ctx, model.AnonymousUserID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hi", entries[0].Prompt)
}

func TestChatGatewayFailureRecordsNothing(t *testing.T) {
	svc, repo, _ := newChatbotFixture(t, &fakeGateway{err: gatewayDown()}, config.ChatConfig{})
	ctx := context.Background()

	_, err := svc.Chat(ctx, "hi", "u1")
	require.Error(t, err)
	assert.True(t, util.IsGateway(err))

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestHistoryNewestFirstWithSummary(t *testing.T) {
	gateway := &fakeGateway{}
	svc, _, clk := newChatbotFixture(t, gateway, config.ChatConfig{HistoryPageSize: 2, HistoryMaxSize: 3})
	ctx := context.Background()
	t0 := clk.Now()

	long := strings.Repeat("ñ", 120)
	for i := 0; i < 4; i++ {
		clk.Set(t0.Add(time.Duration(i) * time.Minute))
		gateway.reply = long
		_, err := svc.Chat(ctx, string(rune('a'+i)), "u1")
		require.NoError(t, err)
	}

	items, err := svc.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "d", items[0].Prompt)
	assert.Equal(t, "c", items[1].Prompt)
	assert.Equal(t, strings.Repeat("ñ", 100)+"...", items[0].Summary)
	assert.Equal(t, long, items[0].Response)

	capped, err := svc.History(ctx, "u1", 50)
	require.NoError(t, err)
	assert.Len(t, capped, 3)
}

func TestHistoryRequiresUser(t *testing.T) {
	svc, _, _ := newChatbotFixture(t, &fakeGateway{}, config.ChatConfig{})
	_, err := svc.History(context.Background(), "", 10)
	assert.True(t, util.IsValidation(err))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 100))
	assert.Equal(t, "ab...", truncateRunes("abc", 2))
	assert.Equal(t, "日本...", truncateRunes("日本語", 2))
}

func TestDailyDigestFallbackWhenNoActivity(t *testing.T) {
	svc, _, clk := newChatbotFixture(t, &fakeGateway{}, config.ChatConfig{})

	digest, err := svc.DailyDigest(context.Background(), "u1", clk.Now())
	require.NoError(t, err)
	assert.Equal(t, NoConversationToday, digest.Text)
	assert.NotEmpty(t, digest.Text)
	assert.Zero(t, digest.Entries)
	assert.Nil(t, digest.LastActivity)
}

func TestDailyDigestOnlyToday(t *testing.T) {
	gateway := &fakeGateway{}
	svc, _, clk := newChatbotFixture(t, gateway, config.ChatConfig{})
	ctx := context.Background()
	today := clk.Now()

	clk.Set(today.AddDate(0, 0, -1))
	gateway.reply = "ayer"
	_, err := svc.Chat(ctx, "yesterday", "u1")
	require.NoError(t, err)

	clk.Set(today)
	gateway.reply = "Hola"
	_, err = svc.Chat(ctx, "Hi", "u1")
	require.NoError(t, err)

	clk.Set(today.Add(time.Hour))
	gateway.reply = "Bien"
	_, err = svc.Chat(ctx, "How are you?", "u1")
	require.NoError(t, err)

	digest, err := svc.DailyDigest(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, digest.Entries)
	assert.Equal(t, "> Hi\n< Hola\n\n> How are you?\n< Bien", digest.Text)
	require.NotNil(t, digest.LastActivity)
	assert.True(t, digest.LastActivity.Equal(today.Add(time.Hour)))
}
