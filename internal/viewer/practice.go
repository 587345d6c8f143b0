package viewer

import "lexstudy_backend/internal/content"

// PracticeSession 单个练习题小节的作答记录，只保存在内存中，非并发安全
type PracticeSession struct {
	selected map[int]int
	revealed map[int]bool
}

func NewPracticeSession() *PracticeSession {
	return &PracticeSession{
		selected: make(map[int]int),
		revealed: make(map[int]bool),
	}
}

// Select 选择即提交并显示答案，已作答的题目锁定，之后的选择忽略
func (s *PracticeSession) Select(question, option int) bool {
	if s.revealed[question] {
		return false
	}
	s.selected[question] = option
	s.revealed[question] = true
	return true
}

func (s *PracticeSession) Selected(question int) (int, bool) {
	opt, ok := s.selected[question]
	return opt, ok
}

func (s *PracticeSession) Revealed(question int) bool {
	return s.revealed[question]
}

// Score 统计得分，正确答案下标无效的题目不计为答对
func (s *PracticeSession) Score(questions []content.Question) content.Score {
	score := content.Score{Total: len(questions)}
	for i, q := range questions {
		if !s.revealed[i] {
			continue
		}
		score.Answered++
		if opt, ok := s.selected[i]; ok && q.CorrectIndex >= 0 && opt == q.CorrectIndex {
			score.Correct++
		}
	}
	return score
}

func (s *PracticeSession) Reset() {
	clear(s.selected)
	clear(s.revealed)
}

var _ content.AnswerState = (*PracticeSession)(nil)
