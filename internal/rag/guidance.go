package rag

import (
	"fmt"
	"net/http"
)

// User-facing messages. The rendered answer labels are Italian, so the
// guidance shown next to them is too.
const (
	msgSuccess      = "Query executed successfully"
	msgMissingQuery = "Specifica la domanda da porre al sistema RAG nel parametro 'query'."
	msgTimeout      = "Il servizio RAG non ha risposto entro il tempo massimo. Riprova tra qualche istante o formula una domanda più semplice."
	msgCanceled     = "La richiesta al servizio RAG è stata annullata prima della risposta."
	msgUnexpected   = "Si è verificato un errore imprevisto durante la chiamata al servizio RAG."
)

// statusGuidance returns the user-facing message for a non-200 status.
func statusGuidance(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "Il servizio RAG ha rifiutato la richiesta. Verifica il testo della domanda."
	case status == http.StatusUnauthorized:
		return "Token API non valido o scaduto. Riconfigura il server con 'configure_rag'."
	case status == http.StatusForbidden:
		return "Il token API non ha i permessi per interrogare i documenti."
	case status == http.StatusNotFound:
		return "Endpoint RAG non trovato. Verifica il base URL configurato."
	case status == http.StatusTooManyRequests:
		return "Troppe richieste al servizio RAG. Attendi qualche istante prima di riprovare."
	case status >= 500:
		return fmt.Sprintf("Il servizio RAG ha restituito un errore interno (status %d). Riprova più tardi.", status)
	default:
		return fmt.Sprintf("Errore nella chiamata al servizio RAG (status %d).", status)
	}
}
