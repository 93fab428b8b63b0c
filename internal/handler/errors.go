package handler

import (
	"errors"

	"flipops-dashboard/internal/backend"
	"flipops-dashboard/internal/dispatch"
	"flipops-dashboard/pkg/apierror"
)

// backendError maps a backend client error onto the dashboard's error
// envelope. 4xx responses keep their status so the browser sees the real
// rejection; 5xx and transport failures surface as 502 because the fault is
// upstream of this service.
func backendError(err error) *apierror.Error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, dispatch.ErrInFlight) {
		return apierror.Conflict("this action is already being submitted")
	}

	var clientErr *backend.ClientError
	if errors.As(err, &clientErr) {
		return apierror.FromStatus(clientErr.StatusCode, clientErr.Detail)
	}
	var serverErr *backend.ServerError
	if errors.As(err, &serverErr) {
		return apierror.BadGateway(serverErr.Detail)
	}
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return apierror.BadGateway("backend unreachable")
	}

	return apierror.InternalError("")
}
