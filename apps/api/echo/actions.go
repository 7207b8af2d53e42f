package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
)

var (
	postOnly      = []string{http.MethodPost}
	postOrPut     = []string{http.MethodPost, http.MethodPut}
	postOrDelete  = []string{http.MethodPost, http.MethodDelete}
	schoolActions = map[string]schoolAction{
		"add-essay-submission":    {postOnly, addEssaySubmission},
		"update-essay-feedback":   {postOrPut, updateEssayFeedback},
		"add-proctoring-flag":     {postOnly, addProctoringFlag},
		"update-completed-exam":   {postOrPut, updateCompletedExam},
		"update-grade":            {postOrPut, updateGrade},
		"process-tuition":         {postOnly, processTuition},
		"save-attendance":         {postOnly, saveAttendance},
		"admin-message":           {postOrDelete, message(school.AdminMessage)},
		"broadcast-message":       {postOrDelete, message(school.BroadcastMessage)},
		"mark-notifications-read": {postOrPut, markNotificationsRead},
		"reset-data":              {postOnly, resetData},
	}
)

type schoolAction struct {
	methods []string
	handle  func(svc *school.Service, ctx echo.Context) (interface{}, error)
}

func (a schoolAction) allows(method string) bool {
	for _, m := range a.methods {
		if m == method {
			return true
		}
	}
	return false
}

func addEssaySubmission(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var in school.EssaySubmissionInput
	if err := bindBody(ctx, &in, "EssaySubmissionInput"); err != nil {
		return nil, err
	}
	return svc.AddEssaySubmission(ctx.Request().Context(), in)
}

func updateEssayFeedback(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var body document.Record
	if err := bindBody(ctx, &body, "EssayFeedbackInput"); err != nil {
		return nil, err
	}
	return svc.UpdateEssayFeedback(ctx.Request().Context(), school.NewEssayFeedbackInput(body))
}

func addProctoringFlag(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var in school.ProctoringFlagInput
	if err := bindBody(ctx, &in, "ProctoringFlagInput"); err != nil {
		return nil, err
	}
	return svc.AddProctoringFlag(ctx.Request().Context(), in)
}

func updateCompletedExam(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var in school.CompletedExamInput
	if err := bindBody(ctx, &in, "CompletedExamInput"); err != nil {
		return nil, err
	}
	return svc.UpdateCompletedExam(ctx.Request().Context(), in)
}

func updateGrade(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var body document.Record
	if err := bindBody(ctx, &body, "GradeInput"); err != nil {
		return nil, err
	}
	return svc.UpdateGrade(ctx.Request().Context(), school.NewGradeInput(body))
}

func processTuition(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var in school.TuitionInput
	if err := bindBody(ctx, &in, "TuitionInput"); err != nil {
		return nil, err
	}
	return svc.ProcessTuition(ctx.Request().Context(), in)
}

func saveAttendance(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var in school.AttendanceInput
	if err := bindBody(ctx, &in, "AttendanceInput"); err != nil {
		return nil, err
	}
	return svc.SaveAttendance(ctx.Request().Context(), in)
}

// message sets the notice on POST and clears it on DELETE.
func message(kind school.MessageKind) func(*school.Service, echo.Context) (interface{}, error) {
	return func(svc *school.Service, ctx echo.Context) (interface{}, error) {
		if ctx.Request().Method == http.MethodDelete {
			return nil, svc.ClearMessage(ctx.Request().Context(), kind)
		}
		var in school.MessageInput
		if err := bindBody(ctx, &in, "MessageInput"); err != nil {
			return nil, err
		}
		return svc.SetMessage(ctx.Request().Context(), kind, in)
	}
}

func markNotificationsRead(svc *school.Service, ctx echo.Context) (interface{}, error) {
	var in school.NotificationsReadInput
	if err := bindBody(ctx, &in, "NotificationsReadInput"); err != nil {
		return nil, err
	}
	return svc.MarkNotificationsRead(ctx.Request().Context(), in)
}

func resetData(svc *school.Service, ctx echo.Context) (interface{}, error) {
	return svc.ResetData(ctx.Request().Context())
}
