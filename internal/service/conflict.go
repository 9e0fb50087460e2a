package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"volunteer-dashboard/backend/internal/model"
)

// ── 时间归一化与冲突引擎 ──
//
// 活动存储为「日历日 + 墙钟起止」；比较前先归一化为存储时区内的
// 绝对时刻对。墙钟上 end < start 的活动跨午夜，end 顺延一天。
// 归一化失败的活动不参与冲突判定（记数据质量告警），既不算冲突
// 也不算安全。

// NormalizedInterval 归一化后的活动时间区间（左闭右开）
type NormalizedInterval struct {
	Start time.Time
	End   time.Time
}

// parseClock 解析墙钟时间，兼容 "15:04" 与数据库返回的 "15:04:05"
func parseClock(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("无法解析时间 %q", s)
}

// normalizeInterval 将日历日与墙钟起止归一化为区间
// end <= start 视为跨午夜，end 顺延一天；start == end 为非法（零时长）
func normalizeInterval(date time.Time, startTime, endTime string, loc *time.Location) (NormalizedInterval, error) {
	startDur, err := parseClock(startTime)
	if err != nil {
		return NormalizedInterval{}, err
	}
	endDur, err := parseClock(endTime)
	if err != nil {
		return NormalizedInterval{}, err
	}
	if startDur == endDur {
		return NormalizedInterval{}, fmt.Errorf("起止时间相同: %s", startTime)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	iv := NormalizedInterval{
		Start: day.Add(startDur),
		End:   day.Add(endDur),
	}
	if endDur < startDur {
		// 跨午夜：实际结束在次日
		iv.End = iv.End.AddDate(0, 0, 1)
	}
	return iv, nil
}

// intervalFromEvent 活动记录 → 归一化区间
func intervalFromEvent(e *model.Event, loc *time.Location) (NormalizedInterval, error) {
	return normalizeInterval(e.EventDate, e.StartTime, e.EndTime, loc)
}

// overlaps 开区间重叠判定：首尾相接（一个结束另一个开始）不算冲突
func overlaps(a, b NormalizedInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// findConflict 在现有活动中寻找与候选区间重叠的活动
//   - excludeEventID 跳过正在编辑的活动自身
//   - 归一化失败的活动跳过并告警，不参与判定
//   - 返回开始时间最早的冲突；开始时间相同取 id 较小者（结果确定）
func findConflict(candidate NormalizedInterval, existing []model.Event, excludeEventID string, loc *time.Location, logger *zap.Logger) *model.Event {
	var best *model.Event
	var bestIv NormalizedInterval

	for i := range existing {
		e := &existing[i]
		if e.EventID == excludeEventID {
			continue
		}

		iv, err := intervalFromEvent(e, loc)
		if err != nil {
			logger.Warn("活动时间数据异常，跳过冲突判定",
				zap.String("event_id", e.EventID),
				zap.String("name", e.Name),
				zap.Error(err),
			)
			continue
		}

		if !overlaps(candidate, iv) {
			continue
		}

		if best == nil ||
			iv.Start.Before(bestIv.Start) ||
			(iv.Start.Equal(bestIv.Start) && e.EventID < best.EventID) {
			best = e
			bestIv = iv
		}
	}

	return best
}
