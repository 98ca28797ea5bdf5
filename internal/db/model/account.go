package model

const AccountCollection = "accounts"

// AccountDocument mirrors one participant balance. A participant whose
// balance reaches zero keeps its document so deposit history is preserved;
// pool membership is derived from the balance on load.
type AccountDocument struct {
	Participant string `bson:"_id"`
	Balance     uint64 `bson:"balance"`
}

func NewAccountDocument(participant string, balance uint64) *AccountDocument {
	return &AccountDocument{
		Participant: participant,
		Balance:     balance,
	}
}
