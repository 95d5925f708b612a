package wshandler

import (
	"github.com/Temutjin2k/fare-predictor/internal/adapter/http/ws/dto"
	ws "github.com/Temutjin2k/fare-predictor/pkg/wsHub"
)

func errorResponse(conn *ws.Conn, requestID string, code int, message any) error {
	return conn.Send(dto.ErrorMessage{
		Type:      dto.TypeError,
		RequestID: requestID,
		Code:      code,
		Error:     message,
	})
}
