package services

import (
	"context"
	"sort"
	"time"

	"citylink/internal/models"
	"citylink/internal/store"
	"citylink/internal/utils"
)

const itemCacheTTL = 30 * time.Second

// FeedService 信息流内容与计票引擎。
// 本身无状态，所有协调都交给存储网关的单文档条件写。
type FeedService struct {
	store store.Gateway
}

func NewFeedService(gw store.Gateway) *FeedService {
	return &FeedService{store: gw}
}

func itemCacheKey(id string) string {
	return "feed:item:" + id
}

func invalidateItemCache(id string) {
	utils.GetCache().Delete(itemCacheKey(id))
}

// GetItem 读取单条内容，带短 TTL 的本地缓存
func (s *FeedService) GetItem(ctx context.Context, itemID string) (*models.ContentItem, error) {
	if cached := utils.GetCache().Get(itemCacheKey(itemID)); cached != nil {
		if item, ok := cached.(*models.ContentItem); ok {
			// 缓存里的对象是共享的，出门前复制一份
			return item.Clone(), nil
		}
	}

	item, _, err := s.store.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	utils.GetCache().Set(itemCacheKey(itemID), item.Clone(), itemCacheTTL)
	return item, nil
}

// ListFeed 信息流列表，新内容在前
func (s *FeedService) ListFeed(ctx context.Context) ([]*models.ContentItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// ToggleReaction 对内容点一个表态。已有同类型表态则取消，
// 已有其他类型表态则切换，没有则新增。每个用户最多留下一条。
func (s *FeedService) ToggleReaction(ctx context.Context, itemID, userID, reactionType string) (*models.ContentItem, error) {
	return s.mutate(ctx, itemID, func(item *models.ContentItem) error {
		for i, r := range item.Reactions {
			if r.UserID != userID {
				continue
			}
			if r.Type == reactionType {
				item.Reactions = append(item.Reactions[:i], item.Reactions[i+1:]...)
			} else {
				item.Reactions[i].Type = reactionType
			}
			return nil
		}
		item.Reactions = append(item.Reactions, models.Reaction{UserID: userID, Type: reactionType})
		return nil
	})
}

// VotePoll 给投票内容投一票
func (s *FeedService) VotePoll(ctx context.Context, itemID, userID, optionID string) (*models.ContentItem, error) {
	return s.mutate(ctx, itemID, func(item *models.ContentItem) error {
		poll, err := item.AsPoll()
		if err != nil {
			return err
		}
		if poll.Expired(time.Now()) {
			return ErrExpired
		}
		target := poll.Option(optionID)
		if target == nil {
			return ErrOptionNotFound
		}

		// 投票始终单选：先把该用户从所有选项里撤出，再记入新选择。
		// AllowMultipleAnswers 只存不用，多选语义只有问卷实现。
		for i := range poll.Options {
			poll.Options[i].Voters = removeString(poll.Options[i].Voters, userID)
		}
		target.Voters = append(target.Voters, userID)
		poll.Votes = poll.CountVotes()
		return nil
	})
}

// VoteSurvey 提交问卷答案，整份替换该用户之前的答案
func (s *FeedService) VoteSurvey(ctx context.Context, itemID, userID string, optionIDs []string) (*models.ContentItem, error) {
	return s.mutate(ctx, itemID, func(item *models.ContentItem) error {
		survey, err := item.AsSurvey()
		if err != nil {
			return err
		}
		if survey.Expired(time.Now()) {
			return ErrExpired
		}
		if !survey.AllowMultipleAnswers && len(optionIDs) > 1 {
			return ErrMultipleAnswersNotAllowed
		}
		// 同一选项重复提交只算一次，否则重复记票会让撤回永远撤不干净
		unique := make([]string, 0, len(optionIDs))
		seen := make(map[string]bool, len(optionIDs))
		for _, id := range optionIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			unique = append(unique, id)
		}
		// 全部选项先验完，确认合法之前不动任何数据
		for _, id := range unique {
			if survey.Option(id) == nil {
				return ErrOptionNotFound
			}
		}

		// 撤回旧答案，计票同步递减
		for i := range survey.Options {
			opt := &survey.Options[i]
			if containsString(opt.Voters, userID) {
				opt.Voters = removeString(opt.Voters, userID)
				opt.Votes--
			}
		}
		// 记入新答案
		for _, id := range unique {
			opt := survey.Option(id)
			opt.Voters = append(opt.Voters, userID)
			opt.Votes++
		}
		return nil
	})
}

// IncrementView 浏览量 +1。不做按用户去重，调用频率由上层控制。
func (s *FeedService) IncrementView(ctx context.Context, itemID string) error {
	_, err := s.mutate(ctx, itemID, func(item *models.ContentItem) error {
		item.Views++
		return nil
	})
	return err
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
