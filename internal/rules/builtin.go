package rules

import "github.com/seclog/seclog/internal/model"

// Builtin returns the built-in suspicious-content rule set.
//
// The categories cover the behaviors most commonly seen in commodity
// malware droppers and data stealers. Quantifiers between keywords are
// bounded (.{0,40}) so a rule only fires when the two halves of a phrase
// appear near each other, which keeps false positives on long benign
// text low.
//
// Severities express how urgently a human should look at the record:
// tooling mentions (obfuscation, mail libraries) warrant a warning,
// active evasion and keylogging demand immediate review.
func Builtin() []Rule {
	return []Rule{
		{
			Category:    "keylogging",
			Description: "References to keyloggers or keystroke capture.",
			Severity:    model.LevelCritical,
			Pattern:     `keylog(?:ger|ging)?`,
		},
		{
			Category:    "credential-theft",
			Description: "Credential material mentioned together with stealing or capturing.",
			Severity:    model.LevelCritical,
			Pattern:     `(?:password|passwd|credential)s?.{0,40}(?:steal|capture|harvest|exfil)`,
		},
		{
			Category:    "credential-exposure",
			Description: "Credential material written in clear text (password: ..., credential=...).",
			Severity:    model.LevelWarning,
			Pattern:     `(?:password|passwd|credential)s?\s*[:=]`,
		},
		{
			Category:    "registry-tampering",
			Description: "Windows registry modification, a common persistence and evasion step.",
			Severity:    model.LevelError,
			Pattern:     `(?:registry|regedit)\s*.{0,40}(?:modif|chang|edit|delet)`,
		},
		{
			Category:    "persistence",
			Description: "Startup or autorun references used to survive reboots.",
			Severity:    model.LevelWarning,
			Pattern:     `startup|autorun`,
		},
		{
			Category:    "av-evasion",
			Description: "Antivirus or endpoint defense bypass attempts.",
			Severity:    model.LevelCritical,
			Pattern:     `(?:antivirus|defender|edr)\s*.{0,40}(?:bypass|avoid|evade|disabl)`,
		},
		{
			Category:    "mail-exfiltration",
			Description: "Mail libraries commonly used to exfiltrate captured data.",
			Severity:    model.LevelWarning,
			Pattern:     `smtplib|sendmail.{0,40}(?:log|captur|dump)`,
		},
		{
			Category:    "obfuscation",
			Description: "Code or string obfuscation references.",
			Severity:    model.LevelWarning,
			Pattern:     `obfuscat(?:e|ed|ion|or)`,
		},
		{
			Category:    "sandbox-evasion",
			Description: "Sandbox or analysis environment detection.",
			Severity:    model.LevelError,
			Pattern:     `sandbox.{0,40}detect|anti.?(?:vm|sandbox)`,
		},
		{
			Category:    "malware",
			Description: "Direct references to malware families or components.",
			Severity:    model.LevelError,
			Pattern:     `malware|virus|trojan|backdoor|rootkit|ransomware`,
		},
	}
}
