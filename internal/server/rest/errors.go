package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	msgMissingFields      = "Champs manquants"
	msgDuplicateEmail     = "Email déjà utilisé"
	msgInvalidCredentials = "Email ou mot de passe invalide"
	msgServerError        = "Erreur serveur"
	msgInvalidID          = "ID invalide"
	msgUserNotFound       = "Utilisateur non trouvé"
	msgGameNotFound       = "Jeu non trouvé"
	msgNoUpdates          = "Aucune donnée fournie pour la mise à jour"
	msgDuplicateValue     = "Conflit: valeur dupliquée"
	msgNameRequired       = "Le champ 'name' est requis"
	msgUserDeleted        = "Utilisateur supprimé"
	msgGameDeleted        = "Jeu supprimé"
	msgBadBody            = "Corps de requête invalide"
	msgMissingToken       = "Token manquant"
	msgInvalidToken       = "Token invalide"
	msgNotImage           = "Only image files are allowed"
)

type messageResponse struct {
	Message string `json:"message"`
}

var errBadBody = errors.New("malformed request body")

var errorTable = []struct {
	target  error
	status  int
	message string
}{
	{errBadBody, http.StatusBadRequest, msgBadBody},
	{common.ErrMissingFields, http.StatusBadRequest, msgMissingFields},
	{common.ErrDuplicateEmail, http.StatusBadRequest, msgDuplicateEmail},
	{common.ErrInvalidCredentials, http.StatusBadRequest, msgInvalidCredentials},
	{common.ErrInvalidID, http.StatusBadRequest, msgInvalidID},
	{common.ErrNoUpdates, http.StatusBadRequest, msgNoUpdates},
	{common.ErrDuplicate, http.StatusBadRequest, msgDuplicateValue},
	{common.ErrNameRequired, http.StatusBadRequest, msgNameRequired},
	{common.ErrNotImage, http.StatusBadRequest, msgNotImage},
	{common.ErrTokenExpired, http.StatusUnauthorized, msgInvalidToken},
	{common.ErrInvalidToken, http.StatusUnauthorized, msgInvalidToken},
}

// classify maps err to a status and the message to send. Not-found errors
// get an empty message; the caller knows which resource was missing.
func classify(err error) (int, string) {
	var pv *auth.PolicyViolation
	if errors.As(err, &pv) {
		return http.StatusBadRequest, pv.Message
	}
	if errors.Is(err, common.ErrorNotFound) {
		return http.StatusNotFound, ""
	}
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, msgServerError
}

// writeError responds with the mapped status. notFound is the message used
// for common.ErrorNotFound. Server errors are logged and never echoed.
func writeError(c *gin.Context, logger logging.Logger, err error, notFound string) {
	status, msg := classify(err)
	if status == http.StatusNotFound {
		msg = notFound
	}
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			"route", c.FullPath(), "request_id", c.GetString(requestIDKey), "error", err)
	}
	c.JSON(status, messageResponse{Message: msg})
}
