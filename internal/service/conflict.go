package service

import (
	"fmt"

	"github.com/MyFGitAccount/platform-efs/internal/dto"
)

// weekdayNames 周日为 0
var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DetectConflicts 对已选时段做两两冲突检测。
// 同一 weekday 下按半开区间判定重叠：max(start1, start2) < min(end1, end2)。
// 仅比较 i < j 的组合，每对冲突只记录一次。
func DetectConflicts(sessions []dto.SelectedSession) []dto.SessionConflict {
	conflicts := make([]dto.SessionConflict, 0)

	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			if a.Weekday != b.Weekday {
				continue
			}

			s1, ok1 := parseMinutes(a.StartTime)
			e1, ok2 := parseMinutes(a.EndTime)
			s2, ok3 := parseMinutes(b.StartTime)
			e2, ok4 := parseMinutes(b.EndTime)
			if !ok1 || !ok2 || !ok3 || !ok4 {
				continue // 时间格式非法的时段不参与检测
			}

			if max(s1, s2) < min(e1, e2) {
				conflicts = append(conflicts, dto.SessionConflict{
					Course1: courseLabel(a.Code, a.ClassNo),
					Course2: courseLabel(b.Code, b.ClassNo),
					Day:     weekdayName(a.Weekday),
					Time:    fmt.Sprintf("%s - %s", a.StartTime, a.EndTime),
					Campus1: a.Campus,
					Campus2: b.Campus,
				})
			}
		}
	}

	return conflicts
}

// parseMinutes 将 "HH:MM" 转为当日分钟数
func parseMinutes(hhmm string) (int, bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func courseLabel(code, classNo string) string {
	if classNo == "" {
		classNo = "01"
	}
	return fmt.Sprintf("%s (%s)", code, classNo)
}

func weekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "Unknown"
	}
	return weekdayNames[weekday]
}
