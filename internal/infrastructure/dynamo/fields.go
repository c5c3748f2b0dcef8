package dynamo

// DynamoDB attribute names for index records.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	attrKey  = "key"
	attrBody = "body"
)
