package faq

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/internal/service/faq/models"
)

const (
	msgNoMatch     = "I'm not sure about that. Let me transfer you to someone who can help."
	confidenceHigh = "high"
)

// Service сервис ответов на частые вопросы
type Service struct {
	faqs   []models.FAQ
	logger Logger
}

// NewService создает сервис с ответами, собранными из профиля клиники
func NewService(clinic domain.ClinicInfo, logger Logger) *Service {
	return &Service{
		faqs:   buildFAQs(clinic),
		logger: logger,
	}
}

// Get ищет ответ: сначала по точной категории, затем по ключевым словам вопроса.
// Без совпадений возвращает предложение перевести на сотрудника.
func (s *Service) Get(req models.Request) *models.Response {
	s.logger.Info("GetFAQ: category=%q, question=%q", req.Category, req.Question)

	// 1. Точное совпадение категории
	if req.Category != "" {
		for i := range s.faqs {
			if s.faqs[i].Category == req.Category {
				return &models.Response{
					Success:  true,
					Message:  s.faqs[i].Answer,
					Category: s.faqs[i].Category,
				}
			}
		}
	}

	// 2. Поиск по ключевым словам
	if req.Question != "" {
		if best := s.bestMatch(req.Question); best != nil {
			return &models.Response{
				Success:    true,
				Message:    best.Answer,
				Category:   best.Category,
				Confidence: confidenceHigh,
			}
		}
	}

	s.logger.Warn("GetFAQ: no answer for category=%q, question=%q", req.Category, req.Question)
	return &models.Response{Message: msgNoMatch, Escalate: true}
}

// All возвращает все вопросы
func (s *Service) All() []models.FAQ {
	result := make([]models.FAQ, len(s.faqs))
	copy(result, s.faqs)
	return result
}

// bestMatch выбирает вопрос с наибольшим числом совпавших ключевых слов.
// При равенстве остаётся первый.
func (s *Service) bestMatch(question string) *models.FAQ {
	lower := strings.ToLower(question)

	var best *models.FAQ
	highest := 0
	for i := range s.faqs {
		score := 0
		for _, keyword := range s.faqs[i].Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				score++
			}
		}
		if score > highest {
			highest = score
			best = &s.faqs[i]
		}
	}
	return best
}

func buildFAQs(clinic domain.ClinicInfo) []models.FAQ {
	return []models.FAQ{
		{
			ID:       1,
			Category: "hours",
			Keywords: []string{"hours", "open", "close", "schedule", "when", "time"},
			Question: "What are your office hours?",
			Answer:   formatHours(clinic.Hours),
		},
		{
			ID:       2,
			Category: "pricing",
			Keywords: []string{"cost", "price", "expensive", "how much", "payment", "insurance"},
			Question: "How much do treatments cost?",
			Answer:   formatPricing(clinic.Pricing),
		},
		{
			ID:       3,
			Category: "location",
			Keywords: []string{"address", "location", "where", "directions", "find you"},
			Question: "Where are you located?",
			Answer:   fmt.Sprintf("We're located at %s. We have ample parking available and are wheelchair accessible.", clinic.Address),
		},
		{
			ID:       4,
			Category: "new_patient",
			Keywords: []string{"new patient", "first visit", "first time", "what to bring", "bring"},
			Question: "What should I bring to my first appointment?",
			Answer:   "For your first visit, please bring: your insurance card (if you have dental insurance), a valid photo ID, a list of any medications you're currently taking, and your dental history if available. Please arrive 15 minutes early to complete our new patient forms.",
		},
		{
			ID:       5,
			Category: "insurance",
			Keywords: []string{"insurance", "coverage", "accept", "dental plan"},
			Question: "Do you accept insurance?",
			Answer:   "Yes, we accept most major dental insurance plans. We're in-network with Delta Dental, MetLife, Cigna, and Aetna. We can verify your coverage when you call to schedule. We also offer flexible payment plans for out-of-pocket costs.",
		},
		{
			ID:       6,
			Category: "treatment",
			Keywords: []string{"braces", "invisalign", "treatment", "options", "types"},
			Question: "What treatment options do you offer?",
			Answer:   "We offer several orthodontic treatments including traditional metal braces, clear ceramic braces, and Invisalign clear aligners. During your consultation, our orthodontist will examine your teeth and recommend the best option for your specific needs and lifestyle.",
		},
		{
			ID:       7,
			Category: "emergency",
			Keywords: []string{"emergency", "urgent", "broken", "pain", "hurt", "wire"},
			Question: "What if I have an orthodontic emergency?",
			Answer:   "For orthodontic emergencies like broken brackets, poking wires, or severe pain, please call our office immediately. We have same-day emergency appointments available. If it's after hours, our answering service will connect you with the on-call orthodontist.",
		},
		{
			ID:       8,
			Category: "duration",
			Keywords: []string{"how long", "duration", "treatment time", "length"},
			Question: "How long does treatment usually take?",
			Answer:   "Treatment length varies depending on your specific case, but typically ranges from 12 to 24 months. During your consultation, we'll provide a personalized treatment timeline. Many patients see noticeable improvements within just a few months!",
		},
		{
			ID:       9,
			Category: "age",
			Keywords: []string{"age", "adult", "kids", "children", "teenager"},
			Question: "Do you treat adults and children?",
			Answer:   "Yes! We treat patients of all ages. There's no age limit for orthodontic treatment. We work with children as young as 7 (when recommended) all the way through adults in their 60s and 70s. It's never too late to get the smile you've always wanted!",
		},
		{
			ID:       10,
			Category: "consultation",
			Keywords: []string{"consultation", "free", "exam", "evaluation", "assessment"},
			Question: "Do you offer free consultations?",
			Answer:   "Yes! We offer complimentary orthodontic consultations. During this visit, we'll examine your teeth, take X-rays if needed, discuss treatment options, and provide a detailed cost estimate. There's no obligation and no pressure - just helpful information to make an informed decision.",
		},
	}
}

func formatHours(hours domain.ClinicHours) string {
	return "Our office hours are:\n" +
		"Monday through Thursday: " + hours.Monday + "\n" +
		"Friday: " + hours.Friday + "\n" +
		"We're closed on weekends. Feel free to leave a message after hours and we'll call you back first thing in the morning!"
}

func formatPricing(pricing domain.ClinicPricing) string {
	return "Our typical treatment costs are:\n" +
		"Initial consultation: " + pricing.Consultation + "\n" +
		"Traditional braces: " + pricing.Braces + "\n" +
		"Invisalign: " + pricing.Invisalign + "\n" +
		"Retainers: " + pricing.Retainers + "\n" +
		"We offer flexible payment plans and accept most insurance. The exact cost depends on your specific treatment needs, which we'll discuss during your consultation."
}
