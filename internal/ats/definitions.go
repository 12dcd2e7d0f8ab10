package ats

import "ats-gateway/internal/resource"

const (
	ContactTechnology      = "contact-technology"
	ContactCompany         = "contact-company"
	ContactDomains         = "contact-domains"
	Educations             = "educations"
	Courses                = "courses"
	ContactHiringTypes     = "contact-hiring-types"
	ContactPreferredJobs   = "contact-preferred-job-types"
	ContactPreferredPlaces = "contact-preferred-locations"
	Universities           = "universities"
	JobTech                = "job-tech"
	ClientJobDomain        = "client-job-domain"
	ClientLocations        = "client-locations"
	InterviewTech          = "interview-tech"
	Certifications         = "certifications"
	Domains                = "domains"
	MasterCompany          = "master-company"
	Technologies           = "technologies"
	Contacts               = "contacts"
	Clients                = "clients"
	Jobs                   = "jobs"
	Interviews             = "interviews"
	Invoices               = "invoices"
	Users                  = "users"
)

var (
	byContact   = map[string]string{"contact": "contact/{id}"}
	byJob       = map[string]string{"job": "job/{id}"}
	byClient    = map[string]string{"client": "client/{id}"}
	byInterview = map[string]string{"interview": "interview/{id}"}
)

func api(name string) string {
	return "api/" + name
}

// Definitions returns every upstream resource the gateway exposes.
// All entries authenticate every operation.
func Definitions() []resource.Config {
	return []resource.Config{
		{Name: ContactTechnology, Path: api(ContactTechnology), Parents: byContact},
		{Name: ContactCompany, Path: api(ContactCompany), Parents: byContact},
		{Name: ContactDomains, Path: api(ContactDomains), Parents: byContact},
		{Name: Educations, Path: api(Educations), Parents: byContact},
		{Name: Courses, Path: api(Courses), Parents: byContact},
		{Name: ContactHiringTypes, Path: api(ContactHiringTypes), Parents: byContact},
		{Name: ContactPreferredJobs, Path: api(ContactPreferredJobs), Parents: byContact},
		{Name: ContactPreferredPlaces, Path: api(ContactPreferredPlaces), Parents: byContact},
		{Name: Universities, Path: api(Universities)},
		{Name: JobTech, Path: api(JobTech), Parents: byJob},
		{Name: ClientJobDomain, Path: api(ClientJobDomain), Parents: byJob},
		{Name: ClientLocations, Path: api(ClientLocations), Parents: byClient},
		{Name: InterviewTech, Path: api(InterviewTech), Parents: byInterview},
		{Name: Certifications, Path: api(Certifications), Parents: byContact},
		{Name: Domains, Path: api(Domains)},
		{Name: MasterCompany, Path: api(MasterCompany)},
		{Name: Technologies, Path: api(Technologies)},
		{Name: Contacts, Path: api(Contacts)},
		{Name: Clients, Path: api(Clients)},
		{Name: Jobs, Path: api(Jobs), Parents: byClient},
		{Name: Interviews, Path: api(Interviews), Parents: map[string]string{
			"contact": "contact/{id}",
			"job":     "job/{id}",
		}},
		{Name: Invoices, Path: api(Invoices), Parents: byClient},
		{
			Name: Users,
			Path: "users",
			Routes: &resource.Routes{
				One:    "{id}",
				All:    "all",
				Create: "create",
				Update: "update/{id}",
				Delete: "delete/{id}",
			},
			Lookups: map[string]string{"email": "email/{value}"},
		},
	}
}
