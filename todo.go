/*
	Project: Mahudhurio - staff sign-up, class rosters & daily attendance for schools.
*/
package mahudhurio

/*
TODO: issue a session token on login and scope /students & /attendance to the logged-in staff's classes
TODO: admin: command to hand a class over to another staff
TODO: attendance: weekly & monthly summaries per class (spreadsheet export)

FIXME:Edge-case:
- Student changing class mid-term: attendance history stays on the old class (student row is re-created)
- Staff ids are short (2 letters + 3 digits): a popular prefix runs out after 900 staffs
*/
