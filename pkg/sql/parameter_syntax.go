package sql

/*
Named Parameter Syntax

# Overview

SQL text handled by this package marks bind values with the :name syntax:

	SELECT * FROM orders WHERE customer_id = :customerId AND total > :minTotal

Parameter names must start with a letter or underscore and contain only
alphanumeric characters and underscores. A colon is only a parameter
introducer outside string literals, quoted identifiers, and comments, and
never when doubled (PostgreSQL :: casts pass through untouched):

	SELECT ':notAParam' AS literal,          -- skipped: string literal
	       "col:notAParam",                  -- skipped: quoted identifier
	       amount::numeric                   -- skipped: cast
	FROM t -- :notAParam in a comment
	WHERE id = :id                           -- the only parameter here

# Execution flow

 1. ExtractNamedParameters finds every occurrence with its byte offsets.
 2. DetectParameterNames reports the distinct names for metadata display;
    the generator attaches them to the query as type "string".
 3. CheckBindValues screens supplied string values with libinjection.
 4. BindNamedParameters rewrites occurrences to positional ? markers, in
    reverse offset order so earlier offsets stay valid, and returns bind
    values ordered by occurrence. The same name used twice binds its value
    twice; a name with no value fails with a BindingError.

For drivers with numbered placeholders, RewritePositional accepts a
PlaceholderFormat (DollarNumber for PostgreSQL, AtPNumber for SQL Server)
and assigns positions by first appearance, reusing the marker for repeated
names.

# Why :name

The original application's UI and saved queries use the :name convention,
it round-trips through SQL syntax highlighting, and it keeps the template
form valid-looking SQL. Values are never interpolated into the text;
everything goes through the driver's positional binding.
*/
