package render

import "fmt"

// User-facing copy.
const (
	WelcomeTitle   = "Chào mừng đến với Quiz App!"
	WelcomeLuck    = "Chúc bạn may mắn!"
	StartLabel     = "Bắt đầu"
	LoadingText    = "Loading quiz..."
	MultiHint      = "Chọn tất cả các tùy chọn đúng"
	Checkmark      = "✔"
	PrevLabel      = "Câu trước"
	NextLabel      = "Câu tiếp theo"
	SubmitLabel    = "Nộp bài"
	RetakeLabel    = "Làm lại bài"
	DetailsHeading = "Phân tích chi tiết:"
	CorrectMarker  = "✅"
	WrongMarker    = "❌"

	noteCorrectSubmitted = " (Đúng và bạn đã chọn)"
	noteCorrectMissed    = " (Đáp án đúng, bạn chưa chọn)"
	noteWrongSubmitted   = " (Bạn đã chọn, nhưng sai)"
)

func welcomeBody(minutes, questions int) string {
	return fmt.Sprintf("Bạn có %dp để làm hoàn thành %d câu hỏi. Hãy bắt đầu ngay bây giờ!", minutes, questions)
}

func questionHeader(index, total int, title string) string {
	return fmt.Sprintf("Câu hỏi %d / %d: %s", index+1, total, title)
}

func timerLine(seconds int) string {
	return "Thời gian còn lại: " + FormatClock(seconds)
}

// FormatClock renders seconds as zero-padded mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
