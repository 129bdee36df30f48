package state

import "github.com/yamigumo/werewolf-gm/internal/models"

type SaveDocumentInput struct {
	Document *models.Document
}
