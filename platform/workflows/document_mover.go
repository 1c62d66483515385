package workflows

import (
	"context"
	"fmt"
	"path"

	"propmgmt/domain/contracts"
	"propmgmt/domain/opportunity"
	"propmgmt/logging"
)

// DocumentMover moves attachments uploaded before the team existed from the
// shared temp folder into the General folder of the opportunity site.
type DocumentMover struct {
	documents  contracts.DocumentClient
	tempFolder string
	logger     *logging.Logger
}

// NewDocumentMover creates a mover rooted at tempFolder on the proposal site.
func NewDocumentMover(documents contracts.DocumentClient, tempFolder string) *DocumentMover {
	if tempFolder == "" {
		tempFolder = opportunity.TempFolderURI
	}
	return &DocumentMover{
		documents:  documents,
		tempFolder: tempFolder,
		logger:     logging.Default().WithComponent("document_mover"),
	}
}

// MoveTempAttachments moves every temp-folder attachment of opp. A failed file is
// reported and left in place; the temp folder is removed only when all files moved.
func (m *DocumentMover) MoveTempAttachments(ctx context.Context, opp *opportunity.Opportunity) []Diagnostic {
	name := opportunity.SanitizeDisplayName(opp.DisplayName)
	site, err := m.documents.ResolveSite(ctx, name)
	if err != nil {
		m.logger.WorkflowError("Failed to resolve opportunity site", err, opp.ID, "site", name)
		return []Diagnostic{{Step: StepResolveSite, Error: err.Error()}}
	}

	folder := path.Join(m.tempFolder, name)
	var diagnostics []Diagnostic
	for i := range opp.DocumentAttachments {
		attachment := &opp.DocumentAttachments[i]
		if !attachment.InTempFolder() {
			continue
		}
		source := path.Join(folder, attachment.FileName)
		dest := path.Join(generalChannel, attachment.FileName)
		if err := m.documents.MoveFile(ctx, site, source, dest); err != nil {
			m.logger.WorkflowError("Failed to move attachment", err, opp.ID, "file", attachment.FileName)
			diagnostics = append(diagnostics, Diagnostic{
				Step:  StepMoveAttachment,
				Error: fmt.Sprintf("%s: %v", attachment.FileName, err),
			})
			continue
		}
		attachment.DocumentURI = ""
		m.logger.Workflow("Attachment moved", opp.ID, "file", attachment.FileName, "site", site.URL)
	}

	if len(diagnostics) > 0 {
		return diagnostics
	}
	if err := m.documents.DeleteFolder(ctx, folder); err != nil {
		m.logger.WorkflowError("Failed to delete temp folder", err, opp.ID, "folder", folder)
		diagnostics = append(diagnostics, Diagnostic{Step: StepDeleteTempFolder, Error: err.Error()})
	}
	return diagnostics
}
