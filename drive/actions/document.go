package actions

import "github.com/dashpay/platform-engine/model/platform"

// ResolvedTokenPayment is a document creation cost resolved to the concrete
// token and payee. The payee is the contract owner.
type ResolvedTokenPayment struct {
	TokenID platform.Identifier
	Amount  platform.TokenAmount
	PayeeID platform.Identifier
}

// DocumentAction is one resolved document operation out of a batch. For
// creates the Document carries the full new content; for replaces the new
// content at the bumped revision; for deletes the stored document about to
// be removed, so triggers and execution see what disappears.
type DocumentAction struct {
	ActionKind   Kind
	Document     *platform.Document
	Contract     *platform.DataContract
	Entropy      []byte
	TokenPayment *ResolvedTokenPayment

	// Previous is the stored document a replace supersedes, carried so
	// execution can release the index slots the old content held.
	Previous *platform.Document
}

func (a *DocumentAction) Kind() Kind                   { return a.ActionKind }
func (a *DocumentAction) OwnerID() platform.Identifier { return a.Document.OwnerID }

// DocumentType returns the contract's type descriptor for the document.
func (a *DocumentAction) DocumentType() (platform.DocumentType, bool) {
	return a.Contract.DocumentType(a.Document.Type)
}
