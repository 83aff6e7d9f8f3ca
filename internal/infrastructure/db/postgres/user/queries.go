package user

const (
	SelectScore = `SELECT score FROM users WHERE uid = $1`
	CreditScore = `
		UPDATE users
		SET score = score + $2
		WHERE uid = $1
		RETURNING score
	`
	// the balance check and the charge are one statement, so concurrent
	// debits on the same account cannot both pass the check
	DebitScore = `
		UPDATE users
		SET score = score - $2
		WHERE uid = $1 AND score >= $2
		RETURNING score
	`
)
