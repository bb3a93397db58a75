// Package matcher pairs invoices with purchase orders by canonical
// document number.
package matcher

import (
	"sort"

	"invoice-recon/internal/docnum"
	"invoice-recon/internal/entity"
)

type keyed struct {
	doc entity.ExtractedDocument
	key docnum.Key
}

// Match pairs invoices with purchase orders sharing a canonical key.
//
// Duplicate keys on one side are never resolved silently: every document
// involved in the collision is reported unmatched with an "ambiguous match"
// reason. Output is deterministic: pairs ascend by canonical key, and
// unmatched documents ascend by key then original upload order, with
// number-less documents last.
func Match(invoices, purchaseOrders []entity.ExtractedDocument) ([]entity.MatchedPair, []entity.UnmatchedDocument) {
	invByKey, invNoNum := index(invoices)
	poByKey, poNoNum := index(purchaseOrders)

	keys := make([]int64, 0, len(invByKey)+len(poByKey))
	seen := make(map[int64]struct{})
	for k := range invByKey {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range poByKey {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var pairs []entity.MatchedPair
	var unmatched []entity.UnmatchedDocument

	for _, k := range keys {
		invs, pos := invByKey[k], poByKey[k]
		switch {
		case len(invs) > 1 || len(pos) > 1:
			group := append(append([]keyed{}, invs...), pos...)
			sortByUpload(group)
			for _, d := range group {
				unmatched = append(unmatched, entity.UnmatchedDocument{
					Document: d.doc,
					Reason:   entity.ReasonAmbiguous,
				})
			}
		case len(invs) == 1 && len(pos) == 1:
			inv, po := invs[0], pos[0]
			pairs = append(pairs, entity.MatchedPair{
				Key:            k,
				Invoice:        inv.doc,
				PurchaseOrder:  po.doc,
				InvoiceSource:  inv.key.Source,
				POSource:       po.key.Source,
				NumberConflict: inv.key.Conflict || po.key.Conflict,
			})
		case len(invs) == 1:
			unmatched = append(unmatched, entity.UnmatchedDocument{
				Document: invs[0].doc,
				Reason:   entity.ReasonNoPurchaseOrder,
			})
		default:
			unmatched = append(unmatched, entity.UnmatchedDocument{
				Document: pos[0].doc,
				Reason:   entity.ReasonNoInvoice,
			})
		}
	}

	noNum := append(append([]entity.ExtractedDocument{}, invNoNum...), poNoNum...)
	sort.SliceStable(noNum, func(i, j int) bool { return noNum[i].UploadIndex < noNum[j].UploadIndex })
	for _, d := range noNum {
		unmatched = append(unmatched, entity.UnmatchedDocument{
			Document: d,
			Reason:   entity.ReasonNoNumber,
		})
	}

	return pairs, unmatched
}

// index groups documents by canonical key, preserving upload order within a
// key, and splits off documents with no recoverable number.
func index(docs []entity.ExtractedDocument) (map[int64][]keyed, []entity.ExtractedDocument) {
	byKey := make(map[int64][]keyed)
	var noNum []entity.ExtractedDocument
	for _, d := range docs {
		k, err := docnum.FromDocument(d)
		if err != nil {
			noNum = append(noNum, d)
			continue
		}
		byKey[k.Value] = append(byKey[k.Value], keyed{doc: d, key: k})
	}
	return byKey, noNum
}

func sortByUpload(group []keyed) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].doc.UploadIndex < group[j].doc.UploadIndex
	})
}
