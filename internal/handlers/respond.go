package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
)

// envelope is the body of every response: data on success, error
// otherwise, never both.
type envelope struct {
	Data  any        `json:"data"`
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeData(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Data: data})
}

// writeError maps err onto its status. Internal causes are logged and
// replaced by a generic message.
func writeError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Code == apperrors.CodeInternal {
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.FullPath(), err)
		appErr = apperrors.New(apperrors.CodeInternal, "internal error")
	}
	c.AbortWithStatusJSON(appErr.Code.HTTPStatus(), envelope{
		Error: &errorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// bindJSON decodes the request body into req; failures are BAD_REQUEST.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		msg := "invalid request body: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		writeError(c, apperrors.New(apperrors.CodeBadRequest, msg))
		return false
	}
	return true
}

func notFound(c *gin.Context) {
	writeError(c, apperrors.New(apperrors.CodeNotFound, "route not found"))
}

func ok(c *gin.Context, data any) {
	writeData(c, http.StatusOK, data)
}
