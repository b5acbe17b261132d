package conversation

// Sender identifies who wrote a chat entry.
type Sender string

// Chat entry senders.
const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one chat entry in a thread. Threads are append-only within
// a session; entries are never edited or rolled back.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Canned assistant phrases, matching the advisory platform's voice.
const (
	greetingLatestResult = "Kết quả giám sát tự động mới nhất:"
	greetingAskForEdits  = "Bác xem và cho tôi biết nếu có muốn thay đổi gì không ạ?"
	greetingQA           = "Chào bác, bác có câu hỏi gì về nông hộ của mình không ạ?"
	apologyRefine        = "Xin lỗi, tôi chưa thể xử lý yêu cầu này."
	apologyAsk           = "Xin lỗi, tôi không thể trả lời câu hỏi này ngay bây giờ."
)
