package game

import "party_quiz/internal/models"

const maxActivityText = 140

// AppendActivity 將一條活動紀錄加到最前面，只保留最新的 MaxActivity 條
func AppendActivity(env Env, room *models.Room, text string) {
	entry := models.ActivityEntry{
		ID:    env.NewID("a"),
		TS:    env.NowMs(),
		TTLMs: ActivityTTL.Milliseconds(),
		Text:  truncate(text, maxActivityText),
	}

	list := make([]models.ActivityEntry, 0, MaxActivity)
	list = append(list, entry)
	for _, e := range room.Activity {
		if len(list) == MaxActivity {
			break
		}
		list = append(list, e)
	}
	room.Activity = list
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
