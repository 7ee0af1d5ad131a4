package platform

// Credits is the platform fee and balance unit. All balances, fees, and
// refunds are expressed in credits.
type Credits uint64

// TokenAmount is the unit for token balances. Tokens are contract-scoped and
// unrelated to credits.
type TokenAmount uint64

// Nonce is a replay-protection counter. Identities carry one nonce per
// (identity, contract) pair and one identity-wide nonce.
type Nonce uint64
