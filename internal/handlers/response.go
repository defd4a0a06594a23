package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
)

type APIError struct {
  Kind    string `json:"kind,omitempty"`
  Message string `json:"message"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

// RespondError maps the error's kind onto an HTTP status and renders
// the error envelope. Internal errors keep their detail in the logs
// only; the client sees a generic message.
func RespondError(c *gin.Context, err error) {
  kind := apperr.KindOf(err)
  msg := "unknown error"
  switch {
  case kind == apperr.KindInternal:
    msg = "internal error"
  case err != nil:
    msg = err.Error()
  }
  c.JSON(apperr.HTTPStatus(err), ErrorEnvelope{
    Error: APIError{
      Kind:    string(kind),
      Message: msg,
    },
  })
}

func RespondBadRequest(c *gin.Context, err error) {
  RespondError(c, apperr.Wrap(apperr.KindBadRequest, err))
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
