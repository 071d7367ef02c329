package metadomain

import "encoding/json"

// Envelope é a resposta paginada padrão da Graph API:
// {"data": [...], "paging": {"cursors": {...}, "next": "..."}}
// Os registros ficam como json.RawMessage para que um registro malformado
// falhe no mapeamento dele, nunca na página inteira.
type Envelope struct {
	Data   []json.RawMessage `json:"data"`
	Paging Paging            `json:"paging"`
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}

// HasNext indica se a plataforma anunciou mais uma página.
// A paginação termina quando o campo "next" é omitido.
func (p Paging) HasNext() bool {
	return p.Next != ""
}
