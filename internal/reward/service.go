package reward

import (
	"errors"
	"fmt"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/userstate"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrInvalidPayload 表示载荷内容不合法(空表情、超长语音等)。
var ErrInvalidPayload = errors.New("无效的奖励内容")

// Send 发后不管地把一条奖励投进收件人的单槽收件箱。
// SET直接覆盖未消费的旧值(last-write-wins)——两个人的规模下
// 这是接受的取舍，不做多条排队。写入和投递提醒在一个事务管道里完成。
func Send(sender string, r Reward, now time.Time) (Reward, error) {
	recipient, err := config.Cfg.App.PartnerOf(sender)
	if err != nil {
		return Reward{}, err
	}

	if err := validate(&r); err != nil {
		return Reward{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Reward{}, fmt.Errorf("无法生成奖励ID: %w", err)
	}
	r.ID = id.String()
	r.Sender = sender
	r.Recipient = recipient
	r.SentAtMs = now.UnixMilli()

	slot := userstate.RewardInboxKey(recipient)
	if r.usesMessageSlot() {
		slot = userstate.MessageInboxKey(recipient)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Set(database.Ctx, slot, r.Encode(), 0)
	pipe.Publish(database.Ctx, userstate.MailboxChannel(recipient), r.Encode())
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return Reward{}, fmt.Errorf("投递奖励失败: %w", err)
	}
	return r, nil
}

func validate(r *Reward) error {
	app := config.Cfg.App
	switch r.Kind {
	case KindEmoji:
		if r.Emoji == "" {
			return fmt.Errorf("%w: 表情不能为空", ErrInvalidPayload)
		}
	case KindWave:
		// 挥手没有附加内容
	case KindText:
		if r.Text == "" {
			return fmt.Errorf("%w: 留言不能为空", ErrInvalidPayload)
		}
	case KindVoice:
		if err := ValidateVoice(r.VoiceDataURI, r.VoiceSeconds, app.VoiceMaxSeconds, app.VoiceMaxBytes); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	default:
		return fmt.Errorf("%w: 未知类型 %s", ErrInvalidPayload, r.Kind)
	}
	return nil
}

// Drain 原子地取走并清空收件人的两个收件箱槽，返回取到的载荷。
// GETDEL保证同一条奖励不会被消费两次；槽位为空时返回空列表。
func Drain(recipient string) []Reward {
	var out []Reward
	for _, slot := range []string{
		userstate.RewardInboxKey(recipient),
		userstate.MessageInboxKey(recipient),
	} {
		payload, err := database.RDB.GetDel(database.Ctx, slot).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			logger.L().Warn("清空收件箱槽失败", zap.String("slot", slot), zap.Error(err))
			continue
		}
		if r, ok := decodeReward(payload); ok {
			out = append(out, r)
		}
	}
	return out
}
