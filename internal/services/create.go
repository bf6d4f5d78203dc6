package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"citylink/internal/models"
	"citylink/internal/utils"
)

// CreateItemRequest 创建内容的入参。Kind 决定读取哪一组字段。
type CreateItemRequest struct {
	Kind      models.ContentKind `json:"kind"`
	CreatedBy string             `json:"created_by"`

	// kind=text
	Body string `json:"body,omitempty"`

	// kind=image
	Caption string   `json:"caption,omitempty"`
	Images  []string `json:"images,omitempty"`

	// kind=audio
	AudioURL    string `json:"audio_url,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`

	// kind=poll / kind=survey
	Question             string     `json:"question,omitempty"`
	Options              []string   `json:"options,omitempty"`
	AllowMultipleAnswers bool       `json:"allow_multiple_answers,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
}

// CreateItem 创建一条信息流内容并写入存储
func (s *FeedService) CreateItem(ctx context.Context, req CreateItemRequest) (*models.ContentItem, error) {
	if strings.TrimSpace(req.CreatedBy) == "" {
		return nil, fmt.Errorf("%w: created_by is required", ErrInvalidInput)
	}

	now := time.Now()
	item := &models.ContentItem{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
		Reactions: []models.Reaction{},
	}

	switch req.Kind {
	case models.KindText:
		body := strings.TrimSpace(req.Body)
		if body == "" {
			return nil, fmt.Errorf("%w: text body is required", ErrInvalidInput)
		}
		item.Text = &models.TextPayload{
			Body: body,
			HTML: utils.RenderMarkdown(body),
		}

	case models.KindImage:
		if len(req.Images) == 0 {
			return nil, fmt.Errorf("%w: at least one image is required", ErrInvalidInput)
		}
		item.Image = &models.ImagePayload{
			Caption: utils.SanitizeText(req.Caption),
			URLs:    req.Images,
		}

	case models.KindAudio:
		if strings.TrimSpace(req.AudioURL) == "" {
			return nil, fmt.Errorf("%w: audio url is required", ErrInvalidInput)
		}
		item.Audio = &models.AudioPayload{
			URL:         req.AudioURL,
			DurationSec: req.DurationSec,
		}

	case models.KindPoll:
		question, options, err := buildChoices(req)
		if err != nil {
			return nil, err
		}
		poll := &models.PollPayload{
			Question:             question,
			AllowMultipleAnswers: req.AllowMultipleAnswers,
			ExpiresAt:            req.ExpiresAt,
		}
		for _, text := range options {
			poll.Options = append(poll.Options, models.PollOption{
				ID:     uuid.NewString(),
				Text:   text,
				Voters: []string{},
			})
		}
		item.Poll = poll

	case models.KindSurvey:
		question, options, err := buildChoices(req)
		if err != nil {
			return nil, err
		}
		survey := &models.SurveyPayload{
			Question:             question,
			AllowMultipleAnswers: req.AllowMultipleAnswers,
			ExpiresAt:            req.ExpiresAt,
		}
		for _, text := range options {
			survey.Options = append(survey.Options, models.SurveyOption{
				ID:     uuid.NewString(),
				Text:   text,
				Voters: []string{},
			})
		}
		item.Survey = survey

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, req.Kind)
	}

	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// buildChoices 校验并清洗投票/问卷共用的问题与选项字段
func buildChoices(req CreateItemRequest) (string, []string, error) {
	question := utils.SanitizeText(req.Question)
	if question == "" {
		return "", nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	options := make([]string, 0, len(req.Options))
	for _, text := range req.Options {
		if t := utils.SanitizeText(text); t != "" {
			options = append(options, t)
		}
	}
	if len(options) < 2 {
		return "", nil, fmt.Errorf("%w: at least two options are required", ErrInvalidInput)
	}
	return question, options, nil
}
