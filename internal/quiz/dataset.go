package quiz

// defaultEmails is the built-in dataset. Content authors can replace it at
// runtime with LoadEmails.
var defaultEmails = []Email{
	// Phishing
	{
		ID:      1,
		From:    "security@bankofamer1ca.com",
		Subject: "URGENT: Suspicious Activity Detected",
		Body: `Dear Customer,

We have detected unusual activity on your account. Your account will be suspended within 24 hours unless you verify your identity immediately.

Click here to confirm your information: http://verify-account-now.com/bankofamerica

Failure to verify will result in permanent account closure.

Bank of America Security Team`,
		IsPhishing:  true,
		Explanation: "This is a phishing email attempting to steal your banking credentials through urgency and fear tactics.",
		RedFlags: []string{
			`Misspelled domain: "bankofamer1ca.com" instead of "bankofamerica.com"`,
			`Generic greeting: "Dear Customer" instead of your name`,
			"Creates urgency with 24-hour threat",
			"Suspicious external link to non-bank domain",
			"Threatening language about account closure",
		},
	},
	{
		ID:      2,
		From:    "no-reply@paypa1-security.com",
		Subject: "Your PayPal Account Has Been Limited",
		Body: `Hello,

Your PayPal account has been limited due to security concerns. To restore full access, please log in and verify your account information within 48 hours.

Click here: http://paypal-verify-secure.com

If you do not complete this verification, your account will be permanently suspended.

PayPal Security`,
		IsPhishing:  true,
		Explanation: "This email uses fear and urgency to trick you into clicking a malicious link and entering your PayPal credentials.",
		RedFlags: []string{
			`Fake domain: "paypa1-security.com" (notice the number 1 instead of letter l)`,
			"No personalization - doesn't use your name",
			"Suspicious external URL not going to paypal.com",
			"Urgent deadline to pressure you into acting quickly",
			"Threats of account suspension",
		},
	},
	{
		ID:      3,
		From:    "admin@your-company-hr.biz",
		Subject: "Mandatory: Update Your W-2 Information",
		Body: `Dear Employee,

The HR department requires all employees to update their W-2 tax information by end of day today.

Please click the link below and enter your:
- Social Security Number
- Date of Birth
- Home Address
- Bank Account Information

Update here: http://hr-portal-update.biz/w2form

This is mandatory for all employees.

HR Department`,
		IsPhishing:  true,
		Explanation: "This is a sophisticated phishing attack targeting employee tax and banking information.",
		RedFlags: []string{
			`Suspicious domain: ".biz" instead of your company's actual domain`,
			"Requests highly sensitive information (SSN, bank account)",
			`Creates false urgency with "end of day" deadline`,
			"Legitimate HR would never ask for this information via email",
			"Link doesn't go to your company's official portal",
		},
	},
	{
		ID:      4,
		From:    "prize@amazon-winner.net",
		Subject: "Congratulations! You've Won a $1000 Amazon Gift Card",
		Body: `Dear Valued Customer,

Congratulations! Your email has been randomly selected to receive a $1000 Amazon Gift Card!

To claim your prize, click here and enter your Amazon login credentials: http://amazon-prizes.net/claim

This offer expires in 24 hours. Claim now!

Amazon Rewards Team`,
		IsPhishing:  true,
		Explanation: "This is a classic prize scam designed to steal your Amazon account credentials.",
		RedFlags: []string{
			`Domain "amazon-winner.net" is not affiliated with Amazon`,
			"You can't win a prize you didn't enter",
			"Asks for login credentials (Amazon would never do this)",
			"Creates urgency with 24-hour expiration",
			`Poor grammar: "email has been randomly selected"`,
		},
	},
	{
		ID:      5,
		From:    "support@microsoft-security-team.com",
		Subject: "Your Windows License Has Expired",
		Body: `Dear User,

Your Windows operating system license has expired. Your computer will be locked in 48 hours if you don't renew.

Renew your license now: http://windows-renewal.com

Cost: $99.99

Enter your credit card information to complete the renewal.

Microsoft Support Team`,
		IsPhishing:  true,
		Explanation: "This scam tries to trick you into paying for a fake Windows license renewal and stealing your credit card.",
		RedFlags: []string{
			"Fake Microsoft domain",
			"Windows licenses don't expire this way",
			"Threats of computer being locked",
			"Asks for credit card information via email",
			"Urgent 48-hour deadline",
		},
	},

	// Legitimate
	{
		ID:      6,
		From:    "orders@amazon.com",
		Subject: "Your Amazon.com order #123-4567890-1234567",
		Body: `Hello John Smith,

Thank you for your order!

Order Number: #123-4567890-1234567
Estimated Delivery: November 18, 2025

Items:
- Wireless Mouse (Qty: 1) - $29.99

Track your package: https://amazon.com/track/123-4567890-1234567

If you have any questions, visit our Help Center at https://amazon.com/help

Thank you for shopping with Amazon!

Amazon.com`,
		Explanation: "This is a legitimate order confirmation from Amazon with all the proper indicators of authenticity.",
	},
	{
		ID:      7,
		From:    "notifications@github.com",
		Subject: "[GitHub] Security alert: new login from Chrome on Windows",
		Body: `Hi developer123,

A new login to your account was detected:

Device: Chrome on Windows 10
Location: San Francisco, CA
IP Address: 192.168.1.1
Time: November 15, 2025 at 2:30 PM PST

If this was you, you can disregard this email. If this wasn't you, please secure your account immediately at:
https://github.com/settings/security

GitHub Security`,
		Explanation: "This is a legitimate security notification from GitHub alerting you to a new login on your account.",
	},
	{
		ID:      8,
		From:    "team@slack.com",
		Subject: "Password change confirmation",
		Body: `Hi there,

This email confirms that your Slack password was successfully changed on November 15, 2025 at 3:45 PM.

If you made this change, no action is needed.

If you did not make this change, please contact us immediately at:
https://slack.com/help/requests/new

The Slack Team`,
		Explanation: "This is a standard password change confirmation from Slack, using their official domain and providing legitimate support contact.",
	},
	{
		ID:      9,
		From:    "noreply@company.com",
		Subject: "Team Meeting Reminder - Tomorrow at 2 PM",
		Body: `Hi Team,

This is a reminder about our weekly team meeting scheduled for tomorrow:

Date: November 16, 2025
Time: 2:00 PM - 3:00 PM EST
Location: Conference Room B / Zoom Link: https://zoom.us/j/123456789

Agenda:
- Project updates
- Q4 planning
- Team announcements

Please review the attached documents before the meeting.

See you there!
Sarah Johnson
Project Manager`,
		Explanation: "This is a normal internal meeting reminder from a colleague with specific details and official company domain.",
	},
	{
		ID:      10,
		From:    "receipts@uber.com",
		Subject: "Your trip with Uber",
		Body: `Thanks for riding with Uber, Michael!

Trip Details:
Date: November 15, 2025 at 5:30 PM
From: 123 Main Street
To: 456 Market Avenue
Fare: $15.42

Driver: David (4.9 ★)

View receipt: https://uber.com/receipts/trip-abc123

Questions? Visit https://help.uber.com

Uber`,
		Explanation: "This is a legitimate Uber receipt with proper personalization, specific trip details, and official Uber domain links.",
	},
}

// DefaultEmails returns a fresh copy of the built-in dataset.
func DefaultEmails() []Email {
	out := make([]Email, len(defaultEmails))
	for i, e := range defaultEmails {
		e.RedFlags = append([]string(nil), e.RedFlags...)
		out[i] = e
	}
	return out
}
