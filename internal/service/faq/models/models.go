package models

// FAQ вопрос с готовым ответом
type FAQ struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
}

// Request параметры вызова get_faq
type Request struct {
	Question string
	Category string
}

// Response ответ на вопрос
type Response struct {
	Success    bool
	Message    string
	Category   string
	Confidence string // "high" при совпадении по ключевым словам
	Escalate   bool
}
