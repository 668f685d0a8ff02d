// internal/history/examples.go
package history

import "emailbuilder/internal/models"

// Curated subject/preheader pairs shown to clients as inspiration. These
// ship with the service and are available even when the archive is disabled.
var curatedExamples = map[models.TemplateType][]models.HistoryExample{
	models.TemplateTypeCartAbandon: {
		{Subject: "Hai dimenticato qualcosa nel carrello!", Preheader: "Completa il tuo acquisto prima che sia troppo tardi"},
		{Subject: "I tuoi articoli ti aspettano", Preheader: "Solo per te: sconto del 10% sul tuo carrello"},
	},
	models.TemplateTypePostPurchase: {
		{Subject: "Grazie per il tuo acquisto!", Preheader: "Ordine confermato - spedizione in corso"},
		{Subject: "Il tuo ordine è in viaggio", Preheader: "Traccia la spedizione e scopri prodotti correlati"},
	},
	models.TemplateTypeOrderConfirmation: {
		{Subject: "Conferma ordine #12345", Preheader: "Tutti i dettagli del tuo acquisto"},
		{Subject: "Ordine ricevuto - preparazione in corso", Preheader: "Grazie per aver scelto il nostro store"},
	},
}

// Examples returns the curated pairs for a template type; unknown types get
// an empty list rather than an error.
func Examples(templateType models.TemplateType) []models.HistoryExample {
	examples, ok := curatedExamples[templateType]
	if !ok {
		return []models.HistoryExample{}
	}

	out := make([]models.HistoryExample, len(examples))
	copy(out, examples)
	return out
}
