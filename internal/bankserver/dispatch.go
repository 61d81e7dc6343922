package bankserver

import "github.com/withobsrvr/bank-server/internal/session"

// dispatch routes one parsed command to its handler. It returns the
// response text and whether the connection should be closed afterward.
func (s *Server) dispatch(sess *session.Session, cmd string, args []string) (string, bool) {
	switch cmd {
	case "RATES":
		return s.handleRates(), false
	case "HELP":
		return s.handleHelp(sess), false
	case "EXIT", "QUIT":
		return "Goodbye", true
	case "REGISTER":
		if sess.IsAuthenticated {
			return s.errAlreadyLoggedIn("register a new account"), false
		}
		return s.handleRegister(args), false
	case "LOGIN":
		if sess.IsAuthenticated {
			return s.errAlreadyLoggedIn("login with a different account"), false
		}
		return s.handleLogin(sess, args), false
	case "SUPERLOGIN":
		if sess.IsAuthenticated {
			return s.errAlreadyLoggedIn("login with a different account"), false
		}
		return s.handleSuperLogin(sess, args), false
	}

	if !sess.IsAuthenticated {
		return s.fail(KindAuth, "Please login first. Available commands without login: RATES, REGISTER, LOGIN, SUPERLOGIN, HELP"), false
	}

	switch cmd {
	case "DEPOSIT":
		return s.handleDeposit(sess, args), false
	case "DEPOSIT_TO":
		return s.handleDepositTo(sess, args), false
	case "WITHDRAW":
		return s.handleWithdraw(sess, args), false
	case "WITHDRAW_FROM":
		return s.handleWithdrawFrom(sess, args), false
	case "TRANSFER":
		return s.handleTransfer(sess, args), false
	case "TRANSFER_FROM":
		return s.handleTransferFrom(sess, args), false
	case "HISTORY":
		return s.handleHistory(sess, args), false
	case "ACCOUNTS":
		return s.handleAccounts(sess), false
	case "CREATE_ACCOUNT":
		return s.handleCreateAccount(sess, args), false
	case "INFO":
		return s.handleInfo(sess), false
	case "LOGOUT":
		sess.Logout()
		return "Logged out successfully", false
	case "PENDING_REQUESTS":
		return s.handlePendingRequests(sess), false
	case "PENDING_VERIFICATIONS":
		return s.handlePendingVerifications(sess), false
	case "APPROVE":
		return s.handleApprove(sess, args), false
	case "REJECT":
		return s.handleReject(sess, args), false
	case "VERIFY":
		return s.handleVerify(sess, args), false
	case "SET_RATES":
		return s.handleSetRates(sess, args), false
	case "SETTINGS":
		return s.handleSettings(sess), false
	case "TAKE_LOAN", "LOAN_PAYMENT":
		return "INFO: Loan functionality will be implemented in future version", false
	case "OPEN_DEPOSIT", "CLOSE_DEPOSIT":
		return "INFO: Deposit functionality will be implemented in future version", false
	case "LOAN_INFO":
		return "INFO: No active loans - functionality will be implemented in future version", false
	case "DEPOSIT_INFO":
		return "INFO: No active deposits - functionality will be implemented in future version", false
	case "ACCRUE_INTEREST":
		return "INFO: Interest accrual will be implemented in future version", false
	default:
		return s.fail(KindParse, "Unknown command. Type HELP for available commands."), false
	}
}

func (s *Server) errAlreadyLoggedIn(action string) string {
	return s.fail(KindAuth, "You are already logged in. Please logout first to %s.", action)
}
