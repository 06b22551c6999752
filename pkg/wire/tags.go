// Package wire implements the single closed peer message union and
// its on-the-wire framing: an 8-byte little-endian length prefix
// followed by a CBOR-encoded envelope. The same codec also backs the
// chain snapshot file.
package wire

// MessageTag identifies the payload carried by an Envelope. The set
// is closed: a handler that doesn't recognize a tag treats the frame
// as malformed and closes the connection.
type MessageTag uint8

const (
	TagFetchBlock MessageTag = iota + 1
	TagDiscoverNodes
	TagNodeList
	TagAskDifference
	TagDifference
	TagFetchBlockHeight
	TagBlockHeight
	TagFetchUTXOs
	TagUTXOs
	TagNewBlock
	TagNewTransaction
	TagValidateTemplate
	TagTemplateValidity
	TagSubmitTemplate
	TagSubmitTransaction
	TagFetchTemplate
	TagTemplate
	TagSlashValidator
)

// String names a tag for logging.
func (t MessageTag) String() string {
	switch t {
	case TagFetchBlock:
		return "FetchBlock"
	case TagDiscoverNodes:
		return "DiscoverNodes"
	case TagNodeList:
		return "NodeList"
	case TagAskDifference:
		return "AskDifference"
	case TagDifference:
		return "Difference"
	case TagFetchBlockHeight:
		return "FetchBlockHeight"
	case TagBlockHeight:
		return "BlockHeight"
	case TagFetchUTXOs:
		return "FetchUTXOs"
	case TagUTXOs:
		return "UTXOs"
	case TagNewBlock:
		return "NewBlock"
	case TagNewTransaction:
		return "NewTransaction"
	case TagValidateTemplate:
		return "ValidateTemplate"
	case TagTemplateValidity:
		return "TemplateValidity"
	case TagSubmitTemplate:
		return "SubmitTemplate"
	case TagSubmitTransaction:
		return "SubmitTransaction"
	case TagFetchTemplate:
		return "FetchTemplate"
	case TagTemplate:
		return "Template"
	case TagSlashValidator:
		return "SlashValidator"
	default:
		return "Unknown"
	}
}

// ClientOnly reports whether a tag is a reply that only a client
// (wallet/validator querying a node) ever receives, and so must
// never be *received* by a node's own handler — receiving one closes
// the connection per the protocol's error policy.
func (t MessageTag) ClientOnly() bool {
	switch t {
	case TagUTXOs, TagTemplate, TagDifference, TagTemplateValidity, TagNodeList, TagBlockHeight:
		return true
	default:
		return false
	}
}
