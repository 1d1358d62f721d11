package main

// demoScript walks the store through every lifecycle transition, including
// each misuse error.
const demoScript = `-- A does not exist yet
SELECT v FROM kv WHERE k = 'A'
-- no transaction in progress
INSERT INTO kv VALUES ('A', 5)
BEGIN
INSERT INTO kv VALUES ('A', 5)
-- own uncommitted write is visible
SELECT v FROM kv WHERE k = 'A'
INSERT INTO kv VALUES ('A', 6)
COMMIT
SELECT v FROM kv WHERE k = 'A'
-- nothing open
COMMIT
ROLLBACK
SELECT v FROM kv WHERE k = 'B'
BEGIN
INSERT INTO kv VALUES ('B', 10)
ROLLBACK
-- rolled back
SELECT v FROM kv WHERE k = 'B'
`
