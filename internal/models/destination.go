package models

// Destination представляет город с подсказками и фактами для игры
type Destination struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	City    string   `gorm:"type:varchar(100);uniqueIndex;not null" json:"city"`
	Country string   `gorm:"type:varchar(100);not null" json:"country"`
	Clues   []string `gorm:"serializer:json;not null" json:"clues"`
	FunFact []string `gorm:"column:fun_fact;serializer:json;not null" json:"fun_fact"`
	Trivia  []string `gorm:"serializer:json" json:"trivia"`
}

// DestinationCreate входные данные для создания направления
type DestinationCreate struct {
	City    string   `json:"city" validate:"required,notblank,max=100"`
	Country string   `json:"country" validate:"required,notblank,max=100"`
	Clues   []string `json:"clues" validate:"required,min=1,dive,notblank"`
	FunFact []string `json:"fun_fact" validate:"required,min=1,dive,notblank"`
	Trivia  []string `json:"trivia"`
}

// ToModel преобразует входные данные в запись хранилища
func (d DestinationCreate) ToModel() *Destination {
	trivia := d.Trivia
	if trivia == nil {
		trivia = []string{}
	}
	return &Destination{
		City:    d.City,
		Country: d.Country,
		Clues:   d.Clues,
		FunFact: d.FunFact,
		Trivia:  trivia,
	}
}

// GameQuestion вопрос с вариантами ответа.
// QuestionID совпадает с ID направления, поэтому по нему можно узнать ответ.
type GameQuestion struct {
	Clue       string   `json:"clue"`
	Options    []string `json:"options"`
	QuestionID uint     `json:"question_id"`
}

// AnswerRequest ответ игрока на вопрос
type AnswerRequest struct {
	QuestionID uint   `json:"question_id"`
	UserAnswer string `json:"user_answer" validate:"required,notblank"`
}

// AnswerResult результат проверки ответа
type AnswerResult struct {
	IsCorrect bool   `json:"is_correct"`
	FunFact   string `json:"fun_fact"`
}

// BulkInsertResult результат пакетной вставки
type BulkInsertResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}
