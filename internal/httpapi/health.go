package httpapi

import (
	"crypto/subtle"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/health"
)

// HealthHandler отдаёт health документ сервиса на GET /manage/health.
// Эндпоинт закрыт basic auth: учётные данные сравниваются с config.Admin.
// Документ отдаётся с кодом 200 и при недоступной базе, состояние видно
// в components.db.status.
func HealthHandler(db health.Pinger, creds config.Admin, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.New().WithField("component", "health")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !credentialsMatch(username, password, creds) {
			logger.WithField("remote", r.RemoteAddr).Debug("health request unauthorized")
			w.Header().Set("WWW-Authenticate", `Basic realm="manage"`)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "unauthorized"})
			return
		}

		writeJSON(w, http.StatusOK, health.Describe(r.Context(), db))
	})
}

func credentialsMatch(username, password string, creds config.Admin) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(creds.Password)) == 1
	return userOK && passOK
}
