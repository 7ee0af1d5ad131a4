package state

import (
	sterrors "github.com/dashpay/platform-engine/drive/errors"
	"github.com/dashpay/platform-engine/model/platform"
	"github.com/dashpay/platform-engine/store"
)

// FetchContract loads a data contract by id.
func (r *Repository) FetchContract(id platform.Identifier) (*platform.DataContract, bool, error) {
	var contract platform.DataContract
	found, err := r.getRecord(store.PathContract, id.Bytes(), &contract)
	if err != nil || !found {
		return nil, found, err
	}
	return &contract, true, nil
}

// PutContract stores a contract, both on creation and on version update. The
// storage cost of the write falls on the contract owner.
func (r *Repository) PutContract(contract *platform.DataContract) error {
	return r.putRecord(store.PathContract, contract.ID.Bytes(), contract)
}

// documentKey scopes a document under its contract and type so two contracts
// can hold documents with colliding ids.
func documentKey(contractID platform.Identifier, docType string, id platform.Identifier) []byte {
	key := make([]byte, 0, platform.IdentifierLength*2+len(docType)+1)
	key = append(key, contractID.Bytes()...)
	key = append(key, docType...)
	key = append(key, 0)
	key = append(key, id.Bytes()...)
	return key
}

// FetchDocument loads a document within its contract and type scope.
func (r *Repository) FetchDocument(
	contractID platform.Identifier,
	docType string,
	id platform.Identifier,
) (*platform.Document, bool, error) {
	var doc platform.Document
	found, err := r.getRecord(store.PathDocument, documentKey(contractID, docType, id), &doc)
	if err != nil || !found {
		return nil, found, err
	}
	return &doc, true, nil
}

func (r *Repository) PutDocument(doc *platform.Document) error {
	return r.putRecord(store.PathDocument, documentKey(doc.ContractID, doc.Type, doc.ID), doc)
}

// DeleteDocument removes a document. The storage refund for the freed bytes
// accrues to the document owner, not to whoever submitted the deletion.
func (r *Repository) DeleteDocument(doc *platform.Document) error {
	return r.delete(store.PathDocument, documentKey(doc.ContractID, doc.Type, doc.ID), doc.OwnerID)
}

// indexKey addresses one unique-index entry: the contract, type and index
// name pick the index, the packed property values pick the entry.
func indexKey(
	contractID platform.Identifier,
	docType, indexName string,
	values []byte,
) []byte {
	key := make([]byte, 0, platform.IdentifierLength+len(docType)+len(indexName)+len(values)+2)
	key = append(key, contractID.Bytes()...)
	key = append(key, docType...)
	key = append(key, 0)
	key = append(key, indexName...)
	key = append(key, 0)
	key = append(key, values...)
	return key
}

// HasIndexEntry reports whether a unique-index slot is already taken.
func (r *Repository) HasIndexEntry(
	contractID platform.Identifier,
	docType, indexName string,
	values []byte,
) (platform.Identifier, bool, error) {
	data, found, err := r.get(store.PathDocumentIndex, indexKey(contractID, docType, indexName, values))
	if err != nil || !found {
		return platform.ZeroIdentifier, found, err
	}
	holder, convErr := platform.IdentifierFromBytes(data)
	if convErr != nil {
		return platform.ZeroIdentifier, false, sterrors.NewCorruptedStateFailure(
			"malformed index entry under contract %s type %s: %s", contractID, docType, convErr)
	}
	return holder, true, nil
}

// PutIndexEntry claims a unique-index slot for a document.
func (r *Repository) PutIndexEntry(
	contractID platform.Identifier,
	docType, indexName string,
	values []byte,
	documentID platform.Identifier,
) error {
	return r.put(store.PathDocumentIndex, indexKey(contractID, docType, indexName, values), documentID.Bytes())
}

// DeleteIndexEntry releases a unique-index slot. The refund goes to the
// owner of the document that held the slot.
func (r *Repository) DeleteIndexEntry(
	contractID platform.Identifier,
	docType, indexName string,
	values []byte,
	ownerID platform.Identifier,
) error {
	return r.delete(store.PathDocumentIndex, indexKey(contractID, docType, indexName, values), ownerID)
}
