package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"citylink/internal/models"
	"citylink/internal/store"
)

func TestCreateTextItem(t *testing.T) {
	feed, st := newTestFeed()
	ctx := context.Background()

	item, err := feed.CreateItem(ctx, CreateItemRequest{
		Kind:      models.KindText,
		CreatedBy: "u1",
		Body:      "附近新开了一家**面馆**",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == "" {
		t.Error("item got no id")
	}
	if item.Kind != models.KindText || item.Text == nil {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !strings.Contains(item.Text.HTML, "<strong>") {
		t.Errorf("markdown not rendered: %q", item.Text.HTML)
	}

	// 落库了才算创建成功
	stored := mustGet(t, st, item.ID)
	if stored.Text.Body != item.Text.Body {
		t.Errorf("stored body %q", stored.Text.Body)
	}
}

func TestCreatePollItem(t *testing.T) {
	feed, _ := newTestFeed()
	exp := time.Now().Add(24 * time.Hour)

	item, err := feed.CreateItem(context.Background(), CreateItemRequest{
		Kind:      models.KindPoll,
		CreatedBy: "u1",
		Question:  "小区门口要不要装充电桩？",
		Options:   []string{"要", "不要"},
		ExpiresAt: &exp,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if len(item.Poll.Options) != 2 {
		t.Fatalf("options: %+v", item.Poll.Options)
	}
	ids := map[string]bool{}
	for _, opt := range item.Poll.Options {
		if opt.ID == "" {
			t.Error("option got no id")
		}
		if ids[opt.ID] {
			t.Errorf("duplicate option id %s", opt.ID)
		}
		ids[opt.ID] = true
		if opt.Voters == nil || len(opt.Voters) != 0 {
			t.Errorf("option voters not initialized empty: %+v", opt)
		}
	}
	if item.Poll.Votes != 0 {
		t.Errorf("new poll votes = %d", item.Poll.Votes)
	}
}

func TestCreateSurveyItem(t *testing.T) {
	feed, _ := newTestFeed()

	item, err := feed.CreateItem(context.Background(), CreateItemRequest{
		Kind:                 models.KindSurvey,
		CreatedBy:            "u1",
		Question:             "你希望增加哪些公交线路？",
		Options:              []string{"环线", "机场线", "夜班线"},
		AllowMultipleAnswers: true,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if !item.Survey.AllowMultipleAnswers || len(item.Survey.Options) != 3 {
		t.Errorf("survey payload: %+v", item.Survey)
	}
}

func TestCreateSanitizesQuestion(t *testing.T) {
	feed, _ := newTestFeed()

	item, err := feed.CreateItem(context.Background(), CreateItemRequest{
		Kind:      models.KindPoll,
		CreatedBy: "u1",
		Question:  `哪个方案好？<script>alert("x")</script>`,
		Options:   []string{"方案一", "方案二"},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if strings.Contains(item.Poll.Question, "<script>") {
		t.Errorf("question not sanitized: %q", item.Poll.Question)
	}
}

func TestCreateItemValidation(t *testing.T) {
	feed, _ := newTestFeed()
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateItemRequest
	}{
		{"missing author", CreateItemRequest{Kind: models.KindText, Body: "hi"}},
		{"empty text body", CreateItemRequest{Kind: models.KindText, CreatedBy: "u1"}},
		{"image without urls", CreateItemRequest{Kind: models.KindImage, CreatedBy: "u1"}},
		{"audio without url", CreateItemRequest{Kind: models.KindAudio, CreatedBy: "u1"}},
		{"poll without question", CreateItemRequest{Kind: models.KindPoll, CreatedBy: "u1", Options: []string{"a", "b"}}},
		{"poll with one option", CreateItemRequest{Kind: models.KindPoll, CreatedBy: "u1", Question: "q", Options: []string{"a"}}},
		{"survey with blank options", CreateItemRequest{Kind: models.KindSurvey, CreatedBy: "u1", Question: "q", Options: []string{" ", ""}}},
		{"unknown kind", CreateItemRequest{Kind: "video", CreatedBy: "u1"}},
	}
	for _, tc := range cases {
		if _, err := feed.CreateItem(ctx, tc.req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: got %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestGetItemReturnsCopies(t *testing.T) {
	feed, st := newTestFeed()
	ctx := context.Background()
	seedText(t, st, "copy-t1")

	first, err := feed.GetItem(ctx, "copy-t1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	// 调用方改动自己拿到的对象，不能影响后续读者
	first.Reactions = append(first.Reactions, models.Reaction{UserID: "u1", Type: "like"})
	first.Text.Body = "mutated"

	second, err := feed.GetItem(ctx, "copy-t1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(second.Reactions) != 0 || second.Text.Body != "hello" {
		t.Errorf("caller mutation leaked into cache: %+v", second)
	}
}

func TestGetItemCacheInvalidatedByMutation(t *testing.T) {
	st := &countingStore{MemoryStore: store.NewMemoryStore()}
	feed := NewFeedService(st)
	seedText(t, st.MemoryStore, "cache-t1")

	ctx := context.Background()
	if _, err := feed.GetItem(ctx, "cache-t1"); err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	getsAfterFirst := st.gets

	// 第二次读命中缓存，不再打到存储层
	if _, err := feed.GetItem(ctx, "cache-t1"); err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if st.gets != getsAfterFirst {
		t.Errorf("cached read hit the store (gets %d -> %d)", getsAfterFirst, st.gets)
	}

	// 任何变更都使缓存失效
	if _, err := feed.ToggleReaction(ctx, "cache-t1", "u1", "like"); err != nil {
		t.Fatalf("ToggleReaction: %v", err)
	}
	item, err := feed.GetItem(ctx, "cache-t1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(item.Reactions) != 1 {
		t.Errorf("stale item served after mutation: %+v", item.Reactions)
	}
}
