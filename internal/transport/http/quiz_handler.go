package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"trainee-quiz-service/internal/app"
	"trainee-quiz-service/internal/domain"
)

// QuizHandler serves personalized quiz payloads over plain HTTP.
type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// ServeQuiz handles GET /api/quiz?quizId=...&userId=... and returns the
// caller's personalized quiz for today. Repeating the request on the same day
// returns byte-identical content.
func (h *QuizHandler) ServeQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	quizID := r.URL.Query().Get("quizId")
	rawUserID := r.URL.Query().Get("userId")
	if quizID == "" || rawUserID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		http.Error(w, "userId must be an integer", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.PersonalizedQuiz(r.Context(), quizID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("personalized quiz failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(traineeView(quiz)); err != nil {
		log.Printf("encode quiz response: %v", err)
	}
}

// traineeView strips answer keys from the payload sent to trainees. The quiz
// is already this caller's private copy, so clearing in place is safe.
func traineeView(quiz domain.Quiz) domain.Quiz {
	for i := range quiz.Questions {
		quiz.Questions[i].CorrectAnswer = ""
	}
	return quiz
}
