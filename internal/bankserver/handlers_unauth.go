package bankserver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/withobsrvr/bank-server/internal/codec"
	"github.com/withobsrvr/bank-server/internal/session"
	"github.com/withobsrvr/bank-server/internal/store"
)

func (s *Server) handleRates() string {
	settings := s.store.GetSettings()
	return fmt.Sprintf(
		"Current Bank Rates:\n"+
			"Credit Interest Rate: %s%%\n"+
			"Deposit Interest Rate: %s%%\n"+
			"Large Operation Threshold: $%s\n"+
			"Large Loan Threshold: $%s\n\n"+
			"New users must be verified to access full functionality.",
		formatRate(settings.CreditInterestRate),
		formatRate(settings.DepositInterestRate),
		formatRate(settings.LargeOperationThreshold),
		formatRate(settings.LargeLoanThreshold),
	)
}

func (s *Server) handleHelp(sess *session.Session) string {
	var b strings.Builder
	b.WriteString("Available commands:\nRATES - view current interest rates\n")

	if !sess.IsAuthenticated {
		b.WriteString(`REGISTER "Full Name" "Birth Date" "Passport" "Password" - create account` + "\n")
		b.WriteString("LOGIN <account_id> <password>\n")
		b.WriteString("SUPERLOGIN <account_id> <password> - security officer login\n")
	} else {
		b.WriteString("ACCOUNTS - list all your accounts\n")
		b.WriteString("DEPOSIT <amount> [description] - deposit to first account\n")
		b.WriteString("DEPOSIT_TO <account_index> <amount> [description] - deposit to specific account\n")
		b.WriteString("WITHDRAW <amount> [description] - withdraw from first account\n")
		b.WriteString("WITHDRAW_FROM <account_index> <amount> [description] - withdraw from specific account\n")
		b.WriteString("TRANSFER <target_accountID> <amount> [description] - transfer from first account\n")
		b.WriteString("TRANSFER_FROM <account_index> <target_accountID> <amount> [description]\n")
		b.WriteString("HISTORY [account_index] - show transaction history\n")
		b.WriteString("CREATE_ACCOUNT <type> - create new account (0=Savings, 1=Checking, 2=Credit, 3=Deposit)\n")
		b.WriteString("INFO - show client information\n")

		if session.IsSuperUser(sess.AccountID) {
			b.WriteString("SECURITY OFFICER COMMANDS:\n")
			b.WriteString("PENDING_REQUESTS - show pending operation requests\n")
			b.WriteString("PENDING_VERIFICATIONS - show pending verification requests\n")
			b.WriteString("APPROVE <request_index> - approve operation\n")
			b.WriteString("REJECT <request_index> - reject operation\n")
			b.WriteString("VERIFY <verification_index> - verify client account\n")
			b.WriteString("SET_RATES <credit_rate> <deposit_rate> - set interest rates\n")
			b.WriteString("SETTINGS - show current bank settings\n")
		}
		b.WriteString("LOGOUT - logout from system\n")
	}

	b.WriteString("HELP - show this help\nEXIT - quit the application")
	return b.String()
}

func (s *Server) handleRegister(args []string) string {
	if len(args) < 4 {
		return s.fail(KindParse, "Usage: REGISTER \"Full Name\" \"Birth Date\" \"Passport Data\" \"Password\"\nExample: REGISTER \"Ivanov Ivan Ivanovich\" \"1990-05-15\" \"4510123456\" \"mypassword123\"")
	}

	fullName, birthDate, passportData, password := args[0], args[1], args[2], args[3]

	if len(fullName) < 5 || !strings.Contains(fullName, " ") {
		return s.fail(KindParse, "Full name must be at least 5 characters long and contain first and last name separated by space")
	}
	if !validBirthDate(birthDate) {
		return s.fail(KindParse, "Birth date must be in format YYYY-MM-DD")
	}
	if len(passportData) != 10 || !allDigits(passportData) {
		return s.fail(KindParse, "Passport data must be exactly 10 digits")
	}
	if len(password) < 6 {
		return s.fail(KindParse, "Password must be at least 6 characters long")
	}
	if s.store.IsPassportExists(passportData) {
		return s.fail(KindState, "User with this passport data already exists")
	}

	accountID := s.newClientAccountID()
	client := &store.Client{
		AccountID:    accountID,
		FullName:     fullName,
		BirthDate:    birthDate,
		PassportData: passportData,
		PasswordHash: codec.HashPassword(password),
		Status:       store.PendingVerification,
	}

	if err := s.store.AddClient(client); err != nil {
		return s.fail(KindIO, "Registration failed")
	}

	description := fmt.Sprintf("Name: %s | Birth: %s | Passport: %s", fullName, birthDate, passportData)
	s.broker.CreateVerificationRequest(accountID, description)

	settings := s.store.GetSettings()
	s.logger.Info("new client registered", zap.String("accountId", accountID), zap.String("name", fullName))

	return fmt.Sprintf(
		"SUCCESS: Registration completed!\n"+
			"Your account ID: %s (SAVE THIS!)\n"+
			"Full Name: %s\n"+
			"Status: PENDING VERIFICATION\n\n"+
			"As an unverified user, you have limited functionality:\n"+
			"- Max transaction: $%s\n"+
			"- No credit accounts\n"+
			"- No deposit accounts\n\n"+
			"Your account is awaiting security verification.\n"+
			"You can login now with: LOGIN %s %s",
		accountID, fullName, formatRate(settings.LargeOperationThreshold/10), accountID, password,
	)
}

func (s *Server) handleLogin(sess *session.Session, args []string) string {
	if len(args) != 2 {
		return s.fail(KindParse, "Usage: LOGIN <account_id> <password>")
	}
	client := s.store.AuthenticateClient(args[0], args[1])
	if client == nil {
		return s.fail(KindAuth, "Invalid account ID or password")
	}

	sess.Authenticate(client)
	s.logger.Info("client logged in", zap.String("accountId", args[0]))

	statusText := "PENDING VERIFICATION"
	if client.Status == store.Verified {
		statusText = "VERIFIED"
	}
	response := fmt.Sprintf("SUCCESS: Login successful\nAccount: %s\nStatus: %s\nAccounts: %d",
		client.AccountID, statusText, len(client.Accounts))

	if client.Status != store.Verified {
		response += "\n\nNOTE: Your account is not yet verified.\nSome features are limited until security verification."
	}
	return response
}

func (s *Server) handleSuperLogin(sess *session.Session, args []string) string {
	if len(args) != 2 {
		return s.fail(KindParse, "Usage: SUPERLOGIN <account_id> <password>")
	}
	client := s.store.AuthenticateClient(args[0], args[1])
	if client == nil || !session.IsSuperUser(args[0]) {
		return s.fail(KindAuth, "Invalid security credentials")
	}

	sess.Authenticate(client)
	s.logger.Info("security officer logged in", zap.String("accountId", args[0]))
	return "SUCCESS: Security officer login successful"
}

func validBirthDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	year, err1 := strconv.Atoi(s[0:4])
	month, err2 := strconv.Atoi(s[5:7])
	day, err3 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	if year < 1900 || year > time.Now().Year() || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func formatRate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
