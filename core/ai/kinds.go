package ai

import (
	"github.com/trezcool/academia/core"
)

// Kind selects a generation task.
type Kind string

const (
	KindQuiz                    Kind = "quiz"
	KindLessonPlan              Kind = "lesson-plan"
	KindTimetable               Kind = "timetable"
	KindText                    Kind = "text"
	KindEssayGrading            Kind = "essay-grading"
	KindExamGrading             Kind = "exam-grading"
	KindDifferentiatedMaterials Kind = "differentiated-materials"
	KindProactiveMessage        Kind = "proactive-message"
)

// Kinds lists every generation task.
var Kinds = []Kind{
	KindQuiz, KindLessonPlan, KindTimetable, KindText,
	KindEssayGrading, KindExamGrading, KindDifferentiatedMaterials, KindProactiveMessage,
}

// ParseKind returns the Kind named `name` or a NotFoundError.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := tasks[k]; !ok {
		return "", core.NewNotFoundError("generation kind", name)
	}
	return k, nil
}

// Request args
type (
	QuizArgs struct {
		Subject      string `json:"subject" validate:"notblank"`
		Topic        string `json:"topic" validate:"notblank"`
		Grade        string `json:"grade"`
		NumQuestions int    `json:"numQuestions" validate:"omitempty,min=1,max=50"`
		Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	}

	LessonPlanArgs struct {
		Subject         string `json:"subject" validate:"notblank"`
		Topic           string `json:"topic" validate:"notblank"`
		Grade           string `json:"grade"`
		DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=5,max=480"`
		Objectives      string `json:"objectives"`
	}

	TimetableArgs struct {
		Classes       []string `json:"classes" validate:"required,min=1,dive,notblank"`
		Subjects      []string `json:"subjects" validate:"required,min=1,dive,notblank"`
		Teachers      []string `json:"teachers"`
		Days          []string `json:"days"`
		PeriodsPerDay int      `json:"periodsPerDay" validate:"omitempty,min=1,max=16"`
		Constraints   string   `json:"constraints"`
	}

	TextArgs struct {
		Prompt string `json:"prompt" validate:"notblank"`
	}

	EssayGradingArgs struct {
		Instructions string  `json:"instructions"`
		Rubric       string  `json:"rubric"`
		Essay        string  `json:"essay" validate:"notblank"`
		MaxScore     float64 `json:"maxScore" validate:"omitempty,gt=0"`
	}

	ExamQuestion struct {
		ID             string  `json:"id" validate:"notblank"`
		Question       string  `json:"question" validate:"notblank"`
		ExpectedAnswer string  `json:"expectedAnswer"`
		Answer         string  `json:"answer"`
		MaxScore       float64 `json:"maxScore" validate:"gt=0"`
	}

	ExamGradingArgs struct {
		Subject   string         `json:"subject"`
		Questions []ExamQuestion `json:"questions" validate:"required,min=1,dive"`
	}

	DifferentiatedMaterialsArgs struct {
		Subject string `json:"subject" validate:"notblank"`
		Topic   string `json:"topic" validate:"notblank"`
		Grade   string `json:"grade"`
		Content string `json:"content"`
	}

	ProactiveMessageArgs struct {
		Audience    string `json:"audience" validate:"required,oneof=parent student teacher"`
		StudentName string `json:"studentName"`
		Context     string `json:"context" validate:"notblank"`
		Tone        string `json:"tone"`
	}
)

// Results
type (
	QuizQuestion struct {
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
	}

	QuizResult struct {
		Title     string         `json:"title"`
		Questions []QuizQuestion `json:"questions"`
	}

	LessonActivity struct {
		Name        string `json:"name"`
		Minutes     int    `json:"minutes"`
		Description string `json:"description"`
	}

	LessonPlanResult struct {
		Title      string           `json:"title"`
		Objectives []string         `json:"objectives"`
		Materials  []string         `json:"materials"`
		Activities []LessonActivity `json:"activities"`
		Assessment string           `json:"assessment"`
	}

	TimetableSlot struct {
		Day     string `json:"day"`
		Period  int    `json:"period"`
		Class   string `json:"class"`
		Subject string `json:"subject"`
		Teacher string `json:"teacher"`
	}

	TimetableResult struct {
		Slots []TimetableSlot `json:"slots"`
	}

	TextResult struct {
		Text string `json:"text"`
	}

	EssayGradingResult struct {
		Score        float64  `json:"score"`
		Feedback     string   `json:"feedback"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	}

	QuestionGrade struct {
		ID       string  `json:"id"`
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}

	ExamGradingResult struct {
		Grades     []QuestionGrade `json:"grades"`
		TotalScore float64         `json:"totalScore"`
	}

	DifferentiatedMaterialsResult struct {
		Support   string `json:"support"`
		Core      string `json:"core"`
		Extension string `json:"extension"`
	}

	ProactiveMessageResult struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
)

// task describes how one Kind is prompted and decoded.
type task struct {
	newArgs   func() interface{}
	newResult func() interface{}
	schema    *Schema
	prompt    string // template name
}

var tasks = map[Kind]task{
	KindQuiz: {
		newArgs:   func() interface{} { return new(QuizArgs) },
		newResult: func() interface{} { return new(QuizResult) },
		prompt:    "quiz",
		schema: object(map[string]*Schema{
			"title": str("quiz title"),
			"questions": array(object(map[string]*Schema{
				"question":    str(""),
				"options":     strList(),
				"answer":      str("the correct option, verbatim"),
				"explanation": str(""),
			})),
		}),
	},
	KindLessonPlan: {
		newArgs:   func() interface{} { return new(LessonPlanArgs) },
		newResult: func() interface{} { return new(LessonPlanResult) },
		prompt:    "lesson-plan",
		schema: object(map[string]*Schema{
			"title":      str(""),
			"objectives": strList(),
			"materials":  strList(),
			"activities": array(object(map[string]*Schema{
				"name":        str(""),
				"minutes":     integer(""),
				"description": str(""),
			})),
			"assessment": str(""),
		}),
	},
	KindTimetable: {
		newArgs:   func() interface{} { return new(TimetableArgs) },
		newResult: func() interface{} { return new(TimetableResult) },
		prompt:    "timetable",
		schema: object(map[string]*Schema{
			"slots": array(object(map[string]*Schema{
				"day":     str(""),
				"period":  integer("1-based period of the day"),
				"class":   str(""),
				"subject": str(""),
				"teacher": str(""),
			})),
		}),
	},
	KindText: {
		newArgs:   func() interface{} { return new(TextArgs) },
		newResult: func() interface{} { return new(TextResult) },
		prompt:    "text",
		schema:    object(map[string]*Schema{"text": str("")}),
	},
	KindEssayGrading: {
		newArgs:   func() interface{} { return new(EssayGradingArgs) },
		newResult: func() interface{} { return new(EssayGradingResult) },
		prompt:    "essay-grading",
		schema: object(map[string]*Schema{
			"score":        num(""),
			"feedback":     str(""),
			"strengths":    strList(),
			"improvements": strList(),
		}),
	},
	KindExamGrading: {
		newArgs:   func() interface{} { return new(ExamGradingArgs) },
		newResult: func() interface{} { return new(ExamGradingResult) },
		prompt:    "exam-grading",
		schema: object(map[string]*Schema{
			"grades": array(object(map[string]*Schema{
				"id":       str("question id"),
				"score":    num(""),
				"feedback": str(""),
			})),
			"totalScore": num(""),
		}),
	},
	KindDifferentiatedMaterials: {
		newArgs:   func() interface{} { return new(DifferentiatedMaterialsArgs) },
		newResult: func() interface{} { return new(DifferentiatedMaterialsResult) },
		prompt:    "differentiated-materials",
		schema: object(map[string]*Schema{
			"support":   str("for learners who need support"),
			"core":      str("for learners at the expected level"),
			"extension": str("for learners ready for more challenge"),
		}),
	},
	KindProactiveMessage: {
		newArgs:   func() interface{} { return new(ProactiveMessageArgs) },
		newResult: func() interface{} { return new(ProactiveMessageResult) },
		prompt:    "proactive-message",
		schema: object(map[string]*Schema{
			"subject": str(""),
			"message": str(""),
		}),
	},
}
