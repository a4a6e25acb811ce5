// Package samples holds the built-in demo contracts. The set is materialized
// once at startup and handed to the handler, never mutated at runtime.
package samples

import "github.com/legilight/backend/internal/storage/models"

func Default() []models.SampleContract {
	return []models.SampleContract{
		{
			ID:          "sample_1",
			Name:        "Employment Agreement Sample",
			Description: "Standard employment contract with common clauses",
			Text: `EMPLOYMENT AGREEMENT

This Employment Agreement ("Agreement") is entered into as of January 1, 2025, between TechCorp Inc., a Delaware corporation ("Company"), and Jane Smith ("Employee").

1. POSITION AND DUTIES
Employee will serve as Senior Software Engineer and will perform duties as assigned by Company.

2. COMPENSATION
Company will pay Employee a base salary of $120,000 per year, payable in accordance with Company's regular payroll practices.

3. TERMINATION
Either party may terminate this Agreement at any time, with or without cause, by providing thirty (30) days written notice to the other party.

4. CONFIDENTIALITY
Employee acknowledges that during employment, Employee may have access to confidential information including trade secrets, customer lists, and proprietary technology.

5. LIABILITY LIMITATION
In no event shall Company's liability exceed the total compensation paid to Employee in the twelve (12) months preceding the claim, except in cases of willful misconduct.

6. GOVERNING LAW
This Agreement shall be governed by the laws of the State of Delaware.`,
		},
		{
			ID:          "sample_2",
			Name:        "Service Agreement Sample",
			Description: "Professional services contract with payment terms",
			Text: `SERVICE AGREEMENT

This Service Agreement ("Agreement") is made on March 15, 2025, between WebDesign LLC ("Provider") and StartupCo Inc. ("Client").

1. SERVICES
Provider agrees to provide web development services including design, development, and deployment of Client's website.

2. PAYMENT TERMS
Client agrees to pay Provider $25,000 for the services, with 50% due upon signing and 50% due upon completion.

3. TIMELINE
Services will be completed within 8 weeks from the start date.

4. INTELLECTUAL PROPERTY
All work product created by Provider will become the exclusive property of Client upon final payment.

5. LIMITATION OF LIABILITY
Provider's total liability shall not exceed the total amount paid by Client under this Agreement.

6. TERMINATION FOR CONVENIENCE
Either party may terminate this Agreement with 14 days written notice.`,
		},
	}
}
