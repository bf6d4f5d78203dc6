package models

import (
	"errors"
	"time"
)

// ContentKind 信息流内容类型
type ContentKind string

const (
	KindText   ContentKind = "text"
	KindImage  ContentKind = "image"
	KindPoll   ContentKind = "poll"
	KindAudio  ContentKind = "audio"
	KindSurvey ContentKind = "survey"
)

// ErrInvalidVariant is returned when a kind-specific operation is applied
// to an item of another kind (e.g. voting on a text post).
var ErrInvalidVariant = errors.New("operation not supported for this content kind")

// Reaction 单个用户对内容的表态（点赞/表情）。每个用户最多一条。
type Reaction struct {
	UserID string `json:"user_id" bson:"user_id"`
	Type   string `json:"type" bson:"type"`
}

// PollOption 投票选项
type PollOption struct {
	ID     string   `json:"id" bson:"id"`
	Text   string   `json:"text" bson:"text"`
	Voters []string `json:"voters" bson:"voters"`
}

// PollPayload 单选投票内容
type PollPayload struct {
	Question string       `json:"question" bson:"question"`
	Options  []PollOption `json:"options" bson:"options"`
	// ExpiresAt 投票截止时间，nil 表示永不截止
	ExpiresAt *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	// AllowMultipleAnswers is stored for the clients but polls are voted
	// single-choice regardless; only surveys honor the flag.
	AllowMultipleAnswers bool `json:"allow_multiple_answers" bson:"allow_multiple_answers"`
	// Votes 冗余计票缓存，始终等于所有选项 Voters 数之和
	Votes int `json:"votes" bson:"votes"`
}

// SurveyOption 问卷选项，计票缓存按选项维护
type SurveyOption struct {
	ID     string   `json:"id" bson:"id"`
	Text   string   `json:"text" bson:"text"`
	Votes  int      `json:"votes" bson:"votes"`
	Voters []string `json:"voters" bson:"voters"`
}

// SurveyPayload 多选问卷内容
type SurveyPayload struct {
	Question             string         `json:"question" bson:"question"`
	Options              []SurveyOption `json:"options" bson:"options"`
	AllowMultipleAnswers bool           `json:"allow_multiple_answers" bson:"allow_multiple_answers"`
	ExpiresAt            *time.Time     `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// TextPayload 纯文本内容，Body 为用户输入的 Markdown，HTML 为渲染结果
type TextPayload struct {
	Body string `json:"body" bson:"body"`
	HTML string `json:"html" bson:"html"`
}

// ImagePayload 图片内容
type ImagePayload struct {
	Caption string   `json:"caption" bson:"caption"`
	URLs    []string `json:"urls" bson:"urls"`
}

// AudioPayload 音频内容
type AudioPayload struct {
	URL         string `json:"url" bson:"url"`
	DurationSec int    `json:"duration_sec" bson:"duration_sec"`
}

// ContentItem 信息流内容，kind 决定哪一个 payload 指针非空
type ContentItem struct {
	ID        string      `json:"id" bson:"id"`
	Kind      ContentKind `json:"kind" bson:"kind"`
	CreatedBy string      `json:"created_by" bson:"created_by"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
	Reactions []Reaction  `json:"reactions" bson:"reactions"`
	Views     int64       `json:"views" bson:"views"`

	Text   *TextPayload   `json:"text,omitempty" bson:"text,omitempty"`
	Image  *ImagePayload  `json:"image,omitempty" bson:"image,omitempty"`
	Poll   *PollPayload   `json:"poll,omitempty" bson:"poll,omitempty"`
	Audio  *AudioPayload  `json:"audio,omitempty" bson:"audio,omitempty"`
	Survey *SurveyPayload `json:"survey,omitempty" bson:"survey,omitempty"`
}

// AsPoll narrows the item to its poll payload.
func (c *ContentItem) AsPoll() (*PollPayload, error) {
	if c.Kind != KindPoll || c.Poll == nil {
		return nil, ErrInvalidVariant
	}
	return c.Poll, nil
}

// AsSurvey narrows the item to its survey payload.
func (c *ContentItem) AsSurvey() (*SurveyPayload, error) {
	if c.Kind != KindSurvey || c.Survey == nil {
		return nil, ErrInvalidVariant
	}
	return c.Survey, nil
}

// Option 按 ID 查找选项，找不到返回 nil
func (p *PollPayload) Option(id string) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

// Expired 判断投票是否已截止
func (p *PollPayload) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// CountVotes 重算计票缓存
func (p *PollPayload) CountVotes() int {
	total := 0
	for i := range p.Options {
		total += len(p.Options[i].Voters)
	}
	return total
}

// Option 按 ID 查找选项，找不到返回 nil
func (s *SurveyPayload) Option(id string) *SurveyOption {
	for i := range s.Options {
		if s.Options[i].ID == id {
			return &s.Options[i]
		}
	}
	return nil
}

// Expired 判断问卷是否已截止
func (s *SurveyPayload) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// Clone 深拷贝，供存储层返回副本使用，避免调用方改动底层数据
func (c *ContentItem) Clone() *ContentItem {
	if c == nil {
		return nil
	}
	out := *c
	out.Reactions = append([]Reaction(nil), c.Reactions...)

	if c.Text != nil {
		t := *c.Text
		out.Text = &t
	}
	if c.Image != nil {
		img := *c.Image
		img.URLs = append([]string(nil), c.Image.URLs...)
		out.Image = &img
	}
	if c.Audio != nil {
		a := *c.Audio
		out.Audio = &a
	}
	if c.Poll != nil {
		p := *c.Poll
		if c.Poll.ExpiresAt != nil {
			exp := *c.Poll.ExpiresAt
			p.ExpiresAt = &exp
		}
		p.Options = make([]PollOption, len(c.Poll.Options))
		for i, opt := range c.Poll.Options {
			opt.Voters = append([]string(nil), opt.Voters...)
			p.Options[i] = opt
		}
		out.Poll = &p
	}
	if c.Survey != nil {
		s := *c.Survey
		if c.Survey.ExpiresAt != nil {
			exp := *c.Survey.ExpiresAt
			s.ExpiresAt = &exp
		}
		s.Options = make([]SurveyOption, len(c.Survey.Options))
		for i, opt := range c.Survey.Options {
			opt.Voters = append([]string(nil), opt.Voters...)
			s.Options[i] = opt
		}
		out.Survey = &s
	}
	return &out
}
